package protocol

import "github.com/jedna-game/jedna/engine"

// OtherPlayer is the public information about a non-acting player.
type OtherPlayer struct {
	ID        string `json:"id"`
	CardCount int    `json:"card_count"`
}

// GameView is the acting agent's view of the game, delivered inside a
// request_action envelope. Cards appear in public notation.
type GameView struct {
	YourID           string        `json:"your_id"`
	Hand             []string      `json:"hand"`
	TopCard          string        `json:"top_card"`
	GameState        string        `json:"game_state"`
	StackedCards     int           `json:"stacked_cards"`
	AlreadyPicked    bool          `json:"already_picked"`
	PickedCard       *string       `json:"picked_card"`
	OtherPlayers     []OtherPlayer `json:"other_players"`
	AvailableActions []string      `json:"available_actions"`
	PlayableCards    []string      `json:"playable_cards"`
}

// BuildView projects the engine's observable state into the acting
// agent's view. It performs no mutation: calling it any number of
// times between two engine operations yields identical output.
func BuildView(g *engine.Game) *GameView {
	view := &GameView{
		YourID:        g.ActingPlayer(),
		Hand:          notations(g.ActingHand()),
		GameState:     g.State().String(),
		StackedCards:  g.StackedCards(),
		AlreadyPicked: g.AlreadyPicked(),
		PlayableCards: notations(g.PlayableCards()),
	}

	if top, ok := g.TopCard(); ok {
		view.TopCard = top.String()
	}
	if picked, ok := g.PickedCard(); ok {
		s := picked.String()
		view.PickedCard = &s
	}

	for _, o := range g.Opponents() {
		view.OtherPlayers = append(view.OtherPlayers, OtherPlayer{ID: o.ID, CardCount: o.CardCount})
	}

	view.AvailableActions = availableActions(g)
	return view
}

// availableActions derives the action set from the draw/pass
// discipline: after a draw the player may pass, and play only the
// picked card; during a war drawing is forbidden; otherwise the player
// must play or draw.
func availableActions(g *engine.Game) []string {
	switch {
	case g.AlreadyPicked():
		if g.PickedPlayable() {
			return []string{ActionPlay, ActionPass}
		}
		return []string{ActionPass}
	case g.StackedCards() > 0:
		return []string{ActionPlay, ActionPass}
	default:
		return []string{ActionPlay, ActionDraw}
	}
}

// notations renders cards in hand order; the slice is always non-nil
// so the JSON field marshals as an array rather than null.
func notations(cards []engine.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}
