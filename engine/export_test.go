package engine

import "fmt"

// Test-only fixture support. Building a Game from a Position bypasses
// the normal Off → Normal lifecycle, so none of this is part of the
// shipped API: it exists solely so the scenario tests (here and in
// the serializer's tests, which share this directory's test binary)
// can force hands, the top card and war state.

// Seat describes one player in a Position, acting player first.
type Seat struct {
	ID   string
	Hand []string // card notations in hand order
}

// Position assembles a mid-game state from card notations.
type Position struct {
	Seats     []Seat
	TopCard   string
	Deck      []string // next card drawn first
	State     State    // zero value means StateNormal
	Stacked   int
	Direction Direction
	Rules     HouseRules
	Seed      uint64
}

// FromPosition builds a started game in the described state.
func FromPosition(p Position) (*Game, error) {
	if len(p.Seats) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	g := NewGame(p.Seed, p.Rules)
	for _, seat := range p.Seats {
		if err := g.AddPlayer(seat.ID); err != nil {
			return nil, err
		}
	}

	for i, seat := range p.Seats {
		hand, err := parseCards(seat.Hand)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", seat.ID, err)
		}
		g.players[i].hand = hand
	}

	top, err := ParseCard(p.TopCard)
	if err != nil {
		return nil, fmt.Errorf("top card: %w", err)
	}
	g.discard = []Card{top}

	deck, err := parseCards(p.Deck)
	if err != nil {
		return nil, fmt.Errorf("deck: %w", err)
	}
	// Position lists the deck draw-first; internally the top is last.
	for i, j := 0, len(deck)-1; i < j; i, j = i+1, j-1 {
		deck[i], deck[j] = deck[j], deck[i]
	}
	g.deck = deck

	g.state = p.State
	if g.state == StateOff {
		g.state = StateNormal
	}
	g.stacked = p.Stacked
	if g.state == StateNormal && g.stacked != 0 {
		return nil, fmt.Errorf("stacked %d outside a war", p.Stacked)
	}
	if g.state.inWar() && g.stacked < 2 {
		return nil, fmt.Errorf("war state needs a stacked penalty of at least 2")
	}
	g.direction = p.Direction
	g.started = true
	g.recordPositionComposition()
	return g, nil
}

// recordPositionComposition snapshots the fixture's card multiset so
// CheckInvariants can verify conservation over the position's cards.
func (g *Game) recordPositionComposition() {
	g.initial = make(map[Card]int)
	for _, c := range g.deck {
		g.initial[c.withoutChosenColor()]++
	}
	for _, c := range g.discard {
		g.initial[c.withoutChosenColor()]++
	}
	for _, p := range g.players {
		for _, c := range p.hand {
			g.initial[c.withoutChosenColor()]++
		}
	}
}

func parseCards(notations []string) ([]Card, error) {
	cards := make([]Card, 0, len(notations))
	for _, n := range notations {
		c, err := ParseCard(n)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
