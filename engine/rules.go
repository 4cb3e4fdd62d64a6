package engine

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	CardsPerPlayer int // cards dealt to each player at start
	MinimumScore   int // floor applied to the winner's reported score

	// WildDrawFourOverridesPicked permits playing a WildDrawFour from
	// hand after drawing, even though only the drawn card is normally
	// playable at that point.
	WildDrawFourOverridesPicked bool
}

// DefaultHouseRules returns the standard Jedna rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		CardsPerPlayer:              7,
		MinimumScore:                30,
		WildDrawFourOverridesPicked: false,
	}
}

// cardsPerPlayer returns the effective deal size, treating 0 as 7.
func (r *HouseRules) cardsPerPlayer() int {
	if r.CardsPerPlayer == 0 {
		return 7
	}
	return r.CardsPerPlayer
}

// minimumScore returns the effective score floor, treating 0 as 30.
func (r *HouseRules) minimumScore() int {
	if r.MinimumScore == 0 {
		return 30
	}
	return r.MinimumScore
}
