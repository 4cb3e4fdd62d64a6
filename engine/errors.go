package engine

import "errors"

// Failure modes reported by engine operations. Operations never mutate
// state when they return one of these; callers dispatch with errors.Is.
var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrIllegalInState   = errors.New("play not legal in current state")
	ErrMissingWildColor = errors.New("wild card requires a chosen color")
	ErrMustDrawFirst    = errors.New("must draw a card before passing")
	ErrGameNotStarted   = errors.New("game has not started")
	ErrGameAlreadyOver  = errors.New("game is already over")
	ErrBadDoublePlay    = errors.New("double play not available")

	ErrDuplicatePlayer  = errors.New("player identity already registered")
	ErrRosterFrozen     = errors.New("players can only be added before the game starts")
	ErrNotEnoughPlayers = errors.New("at least two players are required")
)
