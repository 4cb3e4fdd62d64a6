package engine

import "testing"

// newStartedGame builds and starts a seeded game with the given players.
func newStartedGame(t *testing.T, seed uint64, ids ...string) *Game {
	t.Helper()
	g := NewGame(seed, DefaultHouseRules())
	for _, id := range ids {
		if err := g.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
	if _, err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return g
}

// mustPosition builds a game from a Position fixture.
func mustPosition(t *testing.T, p Position) *Game {
	t.Helper()
	g, err := FromPosition(p)
	if err != nil {
		t.Fatalf("FromPosition: %v", err)
	}
	return g
}

// TestStandardDeckComposition verifies the 108-card set.
func TestStandardDeckComposition(t *testing.T) {
	deck := newStandardDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}

	count := make(map[Card]int)
	for _, c := range deck {
		count[c]++
	}
	for _, color := range Colors {
		if n := count[Card{Color: color, Figure: FigureZero}]; n != 1 {
			t.Errorf("%v zero: %d copies, want 1", color, n)
		}
		for f := FigureOne; f <= FigureReverse; f++ {
			if n := count[Card{Color: color, Figure: f}]; n != 2 {
				t.Errorf("%v %v: %d copies, want 2", color, f, n)
			}
		}
	}
	if n := count[Card{Color: ColorWild, Figure: FigureWild}]; n != 4 {
		t.Errorf("wild: %d copies, want 4", n)
	}
	if n := count[Card{Color: ColorWild, Figure: FigureWildDrawFour}]; n != 4 {
		t.Errorf("wild draw four: %d copies, want 4", n)
	}
}

func TestAddPlayerRules(t *testing.T) {
	g := NewGame(1, DefaultHouseRules())
	if err := g.AddPlayer("p1"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if err := g.AddPlayer("p1"); err == nil {
		t.Error("duplicate identity accepted")
	}
	if _, err := g.Start(); err != ErrNotEnoughPlayers {
		t.Errorf("Start with one player: %v, want ErrNotEnoughPlayers", err)
	}
	if err := g.AddPlayer("p2"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if _, err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.AddPlayer("p3"); err != ErrRosterFrozen {
		t.Errorf("AddPlayer after start: %v, want ErrRosterFrozen", err)
	}
	if _, err := g.Start(); err == nil {
		t.Error("second Start accepted")
	}
}

// TestStartDeals verifies the opening deal and the non-wild first flip.
func TestStartDeals(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		g := newStartedGame(t, seed, "p1", "p2", "p3")

		for _, id := range g.PlayerIDs() {
			if n := g.HandSizeOf(id); n != 7 {
				t.Fatalf("seed %d: %s dealt %d cards, want 7", seed, id, n)
			}
		}
		top, ok := g.TopCard()
		if !ok {
			t.Fatalf("seed %d: no top card after start", seed)
		}
		if top.IsWild() {
			t.Fatalf("seed %d: initial flip produced wild %v", seed, top)
		}
		if g.State() != StateNormal && g.State() != StateWarDrawTwo {
			t.Fatalf("seed %d: state %v after start", seed, g.State())
		}
		if err := g.CheckInvariants(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
	}
}

// prepareForDeal builds an unstarted game for the given players with a hand-built
// deck; the deck lists draw order (first card drawn first).
func prepareForDeal(t *testing.T, drawOrder []string, ids ...string) (*Game, *Result) {
	t.Helper()
	g := NewGame(1, DefaultHouseRules())
	for _, id := range ids {
		if err := g.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer: %v", err)
		}
	}
	deck := make([]Card, 0, len(drawOrder))
	for i := len(drawOrder) - 1; i >= 0; i-- {
		deck = append(deck, mustCard(t, drawOrder[i]))
	}
	g.deck = deck
	g.recordInitialComposition()
	return g, &Result{}
}

// fillerDeck returns n copies of g1 for deal padding.
func fillerDeck(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "g1"
	}
	return out
}

// TestInitialFlipSkip verifies the initial Skip passes over the first player.
func TestInitialFlipSkip(t *testing.T) {
	order := append(fillerDeck(14), "rs")
	g, res := prepareForDeal(t, order, "p1", "p2")
	g.dealAndBegin(res)

	if got := g.ActingPlayer(); got != "p2" {
		t.Errorf("acting player = %s, want p2", got)
	}
}

// TestInitialFlipReverse verifies the initial Reverse flips direction.
func TestInitialFlipReverse(t *testing.T) {
	order := append(fillerDeck(21), "rr")
	g, res := prepareForDeal(t, order, "p1", "p2", "p3")
	g.dealAndBegin(res)

	if g.Direction() != Counterclockwise {
		t.Errorf("direction = %v, want counterclockwise", g.Direction())
	}
	if got := g.ActingPlayer(); got != "p1" {
		t.Errorf("acting player = %s, want p1", got)
	}
}

// TestInitialFlipDrawTwo verifies the initial DrawTwo opens a war.
func TestInitialFlipDrawTwo(t *testing.T) {
	order := append(fillerDeck(14), "r+2")
	g, res := prepareForDeal(t, order, "p1", "p2")
	g.dealAndBegin(res)

	if g.State() != StateWarDrawTwo {
		t.Errorf("state = %v, want war_+2", g.State())
	}
	if g.StackedCards() != 2 {
		t.Errorf("stacked = %d, want 2", g.StackedCards())
	}
}

// TestInitialFlipRejectsWilds verifies wilds go back under the deck.
func TestInitialFlipRejectsWilds(t *testing.T) {
	order := append(fillerDeck(14), "w", "wd4", "b3")
	g, res := prepareForDeal(t, order, "p1", "p2")
	g.dealAndBegin(res)

	top, _ := g.TopCard()
	if top != mustCard(t, "b3") {
		t.Errorf("top card = %v, want b3", top)
	}
	// The rejected wilds are at the bottom of the deck.
	if g.DeckCount() != 2 {
		t.Errorf("deck count = %d, want 2", g.DeckCount())
	}
}

// TestTurnRotationDirections walks the rotation both ways.
func TestTurnRotationDirections(t *testing.T) {
	g := mustPosition(t, Position{
		Seats: []Seat{
			{ID: "p1", Hand: []string{"r1"}},
			{ID: "p2", Hand: []string{"r2"}},
			{ID: "p3", Hand: []string{"r3"}},
		},
		TopCard: "b9",
	})

	g.advanceTurn(1)
	if got := g.ActingPlayer(); got != "p2" {
		t.Fatalf("clockwise advance: acting = %s, want p2", got)
	}
	g.direction = Counterclockwise
	g.advanceTurn(1)
	if got := g.ActingPlayer(); got != "p1" {
		t.Fatalf("counterclockwise advance: acting = %s, want p1", got)
	}
	g.advanceTurn(2)
	if got := g.ActingPlayer(); got != "p2" {
		t.Fatalf("counterclockwise advance by 2: acting = %s, want p2", got)
	}
}

// TestOpponentsOrder verifies turn-order listing under both directions.
func TestOpponentsOrder(t *testing.T) {
	g := mustPosition(t, Position{
		Seats: []Seat{
			{ID: "p1", Hand: []string{"r1"}},
			{ID: "p2", Hand: []string{"r2", "r3"}},
			{ID: "p3", Hand: []string{"r4", "r5", "r6"}},
		},
		TopCard: "b9",
	})

	opps := g.Opponents()
	if len(opps) != 2 || opps[0].ID != "p2" || opps[1].ID != "p3" {
		t.Fatalf("clockwise opponents = %+v", opps)
	}
	if opps[0].CardCount != 2 || opps[1].CardCount != 3 {
		t.Errorf("opponent card counts = %+v", opps)
	}

	g.direction = Counterclockwise
	opps = g.Opponents()
	if len(opps) != 2 || opps[0].ID != "p3" || opps[1].ID != "p2" {
		t.Fatalf("counterclockwise opponents = %+v", opps)
	}
}

// TestCardConservationAcrossPlay runs scripted operations and checks
// the multiset invariant after each one.
func TestCardConservationAcrossPlay(t *testing.T) {
	g := newStartedGame(t, 7, "p1", "p2")
	for turn := 0; turn < 40 && !g.Over(); turn++ {
		acting := g.ActingPlayer()
		if playable := g.PlayableCards(); len(playable) > 0 {
			wild := ColorRed
			if _, err := g.Play(acting, playable[0], wild, false); err != nil {
				t.Fatalf("turn %d: Play(%v): %v", turn, playable[0], err)
			}
		} else if g.StackedCards() > 0 || g.AlreadyPicked() {
			if _, err := g.Pass(acting); err != nil {
				t.Fatalf("turn %d: Pass: %v", turn, err)
			}
		} else {
			if _, err := g.DrawOne(acting); err != nil {
				t.Fatalf("turn %d: DrawOne: %v", turn, err)
			}
		}
		if err := g.CheckInvariants(); err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
	}
}
