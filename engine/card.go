package engine

import (
	"fmt"
	"strings"
)

// Color identifies one of the four playable colors, or Wild for a wild
// card whose holder has not yet chosen a color.
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorWild
)

// Colors lists the four playable (non-wild) colors in notation order.
var Colors = [4]Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}

// String returns the single-letter notation for the color ("" for Wild).
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "r"
	case ColorGreen:
		return "g"
	case ColorBlue:
		return "b"
	case ColorYellow:
		return "y"
	}
	return ""
}

// parseColor maps a notation letter to a playable color.
func parseColor(b byte) (Color, bool) {
	switch b {
	case 'r':
		return ColorRed, true
	case 'g':
		return ColorGreen, true
	case 'b':
		return ColorBlue, true
	case 'y':
		return ColorYellow, true
	}
	return ColorWild, false
}

// Figure identifies the face of a card. Numeric figures are the values
// FigureZero through FigureNine; their ordinal equals the face value.
type Figure uint8

const (
	FigureZero Figure = iota
	FigureOne
	FigureTwo
	FigureThree
	FigureFour
	FigureFive
	FigureSix
	FigureSeven
	FigureEight
	FigureNine
	FigureDrawTwo
	FigureSkip
	FigureReverse
	FigureWild
	FigureWildDrawFour
)

// IsNumeric reports whether the figure is one of 0..9.
func (f Figure) IsNumeric() bool { return f <= FigureNine }

// String returns the notation token for the figure.
func (f Figure) String() string {
	switch {
	case f.IsNumeric():
		return string('0' + byte(f))
	case f == FigureDrawTwo:
		return "+2"
	case f == FigureSkip:
		return "s"
	case f == FigureReverse:
		return "r"
	case f == FigureWild:
		return "w"
	case f == FigureWildDrawFour:
		return "wd4"
	}
	return "?"
}

// Card is an immutable (color, figure) pair. For wild figures Color is
// ColorWild until the holder attaches a chosen color at play time; the
// chosen color is stored in Color and cleared again when the card is
// reshuffled back into the deck.
type Card struct {
	Color  Color
	Figure Figure
}

// NewCard constructs a card, enforcing the color/figure constraints:
// wild figures start with ColorWild, every other figure needs one of
// the four playable colors.
func NewCard(color Color, figure Figure) (Card, error) {
	if figure == FigureWild || figure == FigureWildDrawFour {
		if color != ColorWild {
			return Card{}, fmt.Errorf("card %v cannot carry color at creation", figure)
		}
		return Card{Color: ColorWild, Figure: figure}, nil
	}
	if color == ColorWild {
		return Card{}, fmt.Errorf("figure %v requires a playable color", figure)
	}
	return Card{Color: color, Figure: figure}, nil
}

// IsWild reports whether the card is a Wild or WildDrawFour.
func (c Card) IsWild() bool {
	return c.Figure == FigureWild || c.Figure == FigureWildDrawFour
}

// IsOffensive reports whether playing the card forces draws
// (DrawTwo or WildDrawFour).
func (c Card) IsOffensive() bool {
	return c.Figure == FigureDrawTwo || c.Figure == FigureWildDrawFour
}

// IsWarPlayable reports whether the card can ever be legal during a
// draw-two war (DrawTwo, Reverse, WildDrawFour).
func (c Card) IsWarPlayable() bool {
	return c.Figure == FigureDrawTwo || c.Figure == FigureReverse || c.Figure == FigureWildDrawFour
}

// Value returns the scoring value of the card: face value for
// numerics, 20 for Skip/Reverse/DrawTwo, 50 for wilds.
func (c Card) Value() int {
	switch {
	case c.Figure.IsNumeric():
		return int(c.Figure)
	case c.IsWild():
		return 50
	default:
		return 20
	}
}

// EffectiveColor returns the color used for matching: the printed
// color for normal cards, the chosen color (possibly still ColorWild)
// for wild cards.
func (c Card) EffectiveColor() Color { return c.Color }

// withChosenColor returns a copy of a wild card carrying the chosen color.
func (c Card) withChosenColor(color Color) Card {
	c.Color = color
	return c
}

// withoutChosenColor strips the chosen color from a wild card. Used
// when discards are reshuffled back into the deck.
func (c Card) withoutChosenColor() Card {
	if c.IsWild() {
		c.Color = ColorWild
	}
	return c
}

// CanPlayOn reports whether the card may be placed on top in the
// normal game state: wilds always match, otherwise the effective color
// or the figure must match.
func (c Card) CanPlayOn(top Card) bool {
	return c.IsWild() ||
		c.EffectiveColor() == top.EffectiveColor() ||
		c.Figure == top.Figure
}

// sameIdentity reports whether two cards are the same physical kind of
// card, ignoring any chosen color on wilds. Hand lookups use this so a
// wild requested as "wr" still matches the uncolored wild in hand.
func (c Card) sameIdentity(o Card) bool {
	if c.Figure != o.Figure {
		return false
	}
	return c.IsWild() || c.Color == o.Color
}

// String renders the card in public notation: "<color><figure>" for
// normal cards (r5, g+2), "<figure><chosen-color-or-empty>" for wilds
// (w, wr, wd4, wd4b).
func (c Card) String() string {
	if c.IsWild() {
		return c.Figure.String() + c.Color.String()
	}
	return c.Color.String() + c.Figure.String()
}

// ParseCard parses public notation back into a Card. Parsing is
// case-insensitive; the historical spelling "ww" denotes a bare Wild.
func ParseCard(text string) (Card, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return Card{}, fmt.Errorf("parse card: empty notation")
	}

	if s[0] == 'w' {
		return parseWild(s)
	}

	color, ok := parseColor(s[0])
	if !ok {
		return Card{}, fmt.Errorf("parse card %q: unknown color %q", text, s[0])
	}
	figure, ok := parseFigureToken(s[1:])
	if !ok {
		return Card{}, fmt.Errorf("parse card %q: unknown figure %q", text, s[1:])
	}
	return Card{Color: color, Figure: figure}, nil
}

// parseWild handles the w / ww / w<color> / wd4 / wd4<color> forms.
func parseWild(s string) (Card, error) {
	figure := FigureWild
	rest := s[1:]
	if strings.HasPrefix(rest, "d4") {
		figure = FigureWildDrawFour
		rest = rest[2:]
	} else if rest == "w" {
		// Historical notation for a bare Wild.
		rest = ""
	}

	card := Card{Color: ColorWild, Figure: figure}
	switch len(rest) {
	case 0:
		return card, nil
	case 1:
		color, ok := parseColor(rest[0])
		if !ok {
			return Card{}, fmt.Errorf("parse card %q: unknown wild color %q", s, rest)
		}
		return card.withChosenColor(color), nil
	}
	return Card{}, fmt.Errorf("parse card %q: trailing %q", s, rest)
}

// parseFigureToken maps a non-wild figure token to its Figure.
func parseFigureToken(tok string) (Figure, bool) {
	switch tok {
	case "s":
		return FigureSkip, true
	case "r":
		return FigureReverse, true
	case "+2":
		return FigureDrawTwo, true
	}
	if len(tok) == 1 && tok[0] >= '0' && tok[0] <= '9' {
		return Figure(tok[0] - '0'), true
	}
	return 0, false
}
