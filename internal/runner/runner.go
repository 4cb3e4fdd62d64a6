// Package runner drives one game between external agents: it asks the
// serializer for the acting player's view, dispatches to that agent,
// and applies the reply through the engine until a winner emerges or a
// game timeout declares a draw. Any agent misbehavior degrades to a
// safe-default move so the game always progresses.
package runner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jedna-game/jedna/engine"
	"github.com/jedna-game/jedna/internal/protocol"
)

// AgentClient is what the runner needs from an agent. The subprocess
// implementation lives in internal/agent; tests substitute in-process
// fakes.
type AgentClient interface {
	ID() string
	Start() error
	RequestAction(view *protocol.GameView, timeout time.Duration) (*protocol.AgentAction, error)
	Notify(env protocol.Envelope) error
	Stop(grace time.Duration)
}

// OnGameEndFunc is invoked once with the final outcome. winner is
// empty when the game was drawn.
type OnGameEndFunc func(gameID uuid.UUID, winner string, scores map[string]int)

// Options configures one game run. Zero timeouts mean "no limit".
type Options struct {
	TurnTimeout time.Duration
	GameTimeout time.Duration
	StopGrace   time.Duration
	Seed        uint64
	Rules       engine.HouseRules
	Log         *logrus.Logger
	OnGameEnd   OnGameEndFunc
}

// Result records the outcome of one game.
type Result struct {
	GameID uuid.UUID      `json:"game_id"`
	Winner string         `json:"winner,omitempty"`
	Draw   bool           `json:"draw,omitempty"`
	Scores map[string]int `json:"scores"`
	Turns  int            `json:"turns"`
}

// forfeitThreshold is how many consecutive protocol errors an agent
// may produce before the runner stops consulting it.
const forfeitThreshold = 2

// Runner executes a single game. Not reusable across games.
type Runner struct {
	opts   Options
	log    *logrus.Entry
	gameID uuid.UUID

	agents []AgentClient
	byID   map[string]AgentClient

	game      *engine.Game
	protoErrs map[string]int
	forfeited map[string]bool
}

// New creates a runner for the given agents, seated in order.
func New(agents []AgentClient, opts Options) *Runner {
	if opts.Log == nil {
		opts.Log = logrus.New()
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	id := uuid.New()
	r := &Runner{
		opts:      opts,
		log:       opts.Log.WithField("game", id),
		gameID:    id,
		agents:    agents,
		byID:      make(map[string]AgentClient, len(agents)),
		protoErrs: make(map[string]int),
		forfeited: make(map[string]bool),
	}
	for _, a := range agents {
		r.byID[a.ID()] = a
	}
	return r
}

// Run plays the game to completion and returns the outcome. A non-nil
// error means the game could not be played at all (resource failure or
// an engine invariant violation); the agents are torn down either way.
func (r *Runner) Run() (*Result, error) {
	if err := r.startAgents(); err != nil {
		return nil, err
	}
	defer r.stopAgents()

	r.game = engine.NewGame(r.opts.Seed, r.opts.Rules)
	for _, a := range r.agents {
		if err := r.game.AddPlayer(a.ID()); err != nil {
			return nil, fmt.Errorf("seat %s: %w", a.ID(), err)
		}
	}
	res, err := r.game.Start()
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	r.broadcastEvents(res)

	var deadline time.Time
	if r.opts.GameTimeout > 0 {
		deadline = time.Now().Add(r.opts.GameTimeout)
	}

	turns := 0
	for !r.game.Over() {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return r.declareDraw(turns), nil
		}
		turns++
		r.takeTurn()
		if err := r.game.CheckInvariants(); err != nil {
			r.log.WithError(err).Error("engine invariant violated, aborting game")
			return nil, fmt.Errorf("invariant violation: %w", err)
		}
	}

	winner, _, _ := r.game.Winner()
	scores := r.game.Scores()
	r.notifyAll(protocol.GameEnd(winner, scores))
	if r.opts.OnGameEnd != nil {
		r.opts.OnGameEnd(r.gameID, winner, scores)
	}
	r.log.WithFields(logrus.Fields{"winner": winner, "turns": turns}).Info("game finished")
	return &Result{GameID: r.gameID, Winner: winner, Scores: scores, Turns: turns}, nil
}

// startAgents spawns every agent; any spawn failure aborts the game
// and tears down the agents already running.
func (r *Runner) startAgents() error {
	for i, a := range r.agents {
		if err := a.Start(); err != nil {
			for _, started := range r.agents[:i] {
				started.Stop(r.opts.StopGrace)
			}
			return fmt.Errorf("start agent %s: %w", a.ID(), err)
		}
	}
	return nil
}

func (r *Runner) stopAgents() {
	for _, a := range r.agents {
		a.Stop(r.opts.StopGrace)
	}
}

// declareDraw ends a timed-out game: no winner, hand values recorded.
func (r *Runner) declareDraw(turns int) *Result {
	scores := make(map[string]int)
	for _, id := range r.game.PlayerIDs() {
		scores[id] = r.game.HandValueOf(id)
	}
	r.notifyAll(protocol.GameEnd("", scores))
	if r.opts.OnGameEnd != nil {
		r.opts.OnGameEnd(r.gameID, "", scores)
	}
	r.log.WithField("turns", turns).Info("game timed out, declared a draw")
	return &Result{GameID: r.gameID, Draw: true, Scores: scores, Turns: turns}
}

// takeTurn obtains and applies one move for the acting player.
func (r *Runner) takeTurn() {
	actingID := r.game.ActingPlayer()
	client := r.byID[actingID]

	if r.forfeited[actingID] {
		r.safeDefault(actingID)
		return
	}

	action, err := client.RequestAction(protocol.BuildView(r.game), r.opts.TurnTimeout)
	if err != nil {
		r.protocolFailure(client, err)
		r.safeDefault(actingID)
		return
	}
	r.protoErrs[actingID] = 0

	switch action.Action {
	case protocol.ActionPlay:
		r.applyPlay(client, action)
	case protocol.ActionDraw:
		r.applyDraw(client)
	case protocol.ActionPass:
		r.applyEngineOp(client, func() (*engine.Result, error) { return r.game.Pass(actingID) })
	}
}

// protocolFailure records a timeout/garbage/closed-pipe failure and
// forfeits the agent after too many in a row.
func (r *Runner) protocolFailure(client AgentClient, err error) {
	id := client.ID()
	r.protoErrs[id]++
	r.log.WithError(err).WithField("agent", id).Warn("protocol error, applying safe default")
	client.Notify(protocol.ErrorEnvelope(err.Error()))
	if r.protoErrs[id] >= forfeitThreshold && !r.forfeited[id] {
		r.forfeited[id] = true
		r.log.WithField("agent", id).Warn("agent forfeited after repeated protocol errors")
		client.Notify(protocol.ErrorEnvelope("forfeited: repeated protocol errors"))
	}
}

// applyPlay translates a play reply into an engine Play call.
func (r *Runner) applyPlay(client AgentClient, action *protocol.AgentAction) {
	actingID := client.ID()

	card, err := engine.ParseCard(action.Card)
	if err != nil {
		r.log.WithError(err).WithField("agent", actingID).Warn("unparseable card, applying safe default")
		client.Notify(protocol.ErrorEnvelope(err.Error()))
		r.safeDefault(actingID)
		return
	}

	// The chosen color may come from the wild_color field or be folded
	// into the notation ("wr"); the field wins.
	wildColor := engine.ColorWild
	if card.IsWild() && card.Color != engine.ColorWild {
		wildColor = card.Color
	}
	if action.WildColor != "" {
		c, err := protocol.ParseWildColor(action.WildColor)
		if err != nil {
			client.Notify(protocol.ErrorEnvelope(err.Error()))
			r.safeDefault(actingID)
			return
		}
		wildColor = c
	}

	// double_play is honored only when a second identical copy exists.
	double := action.DoublePlay && r.game.CanDouble(card)

	r.applyEngineOp(client, func() (*engine.Result, error) {
		return r.game.Play(actingID, card, wildColor, double)
	})
}

// applyDraw performs the draw and immediately requests the follow-up
// decision on the drawn card; anything but a valid play becomes a pass.
func (r *Runner) applyDraw(client AgentClient) {
	actingID := client.ID()

	res, err := r.game.DrawOne(actingID)
	if err != nil {
		r.engineFailure(client, err)
		r.safeDefault(actingID)
		return
	}
	r.broadcastEvents(res)

	action, err := client.RequestAction(protocol.BuildView(r.game), r.opts.TurnTimeout)
	if err != nil {
		r.protocolFailure(client, err)
		r.forcePass(actingID)
		return
	}
	r.protoErrs[actingID] = 0

	if action.Action == protocol.ActionPlay {
		r.applyPlay(client, action)
		return
	}
	r.forcePass(actingID)
}

// applyEngineOp runs one engine mutation; an engine rejection is
// reported to the agent and degraded to the safe default.
func (r *Runner) applyEngineOp(client AgentClient, op func() (*engine.Result, error)) {
	res, err := op()
	if err != nil {
		r.engineFailure(client, err)
		r.safeDefault(client.ID())
		return
	}
	r.broadcastEvents(res)
}

func (r *Runner) engineFailure(client AgentClient, err error) {
	r.log.WithError(err).WithField("agent", client.ID()).Warn("illegal move, applying safe default")
	client.Notify(protocol.ErrorEnvelope(err.Error()))
}

// safeDefault guarantees progress: pass when a pass is legal (after a
// draw or during a war), otherwise draw one card and pass.
func (r *Runner) safeDefault(actingID string) {
	if r.game.Over() || r.game.ActingPlayer() != actingID {
		return
	}
	if r.game.AlreadyPicked() || r.game.StackedCards() > 0 {
		r.forcePass(actingID)
		return
	}
	if res, err := r.game.DrawOne(actingID); err == nil {
		r.broadcastEvents(res)
	}
	r.forcePass(actingID)
}

// forcePass passes for the player, logging the (unexpected) failure case.
func (r *Runner) forcePass(actingID string) {
	if r.game.Over() || r.game.ActingPlayer() != actingID {
		return
	}
	res, err := r.game.Pass(actingID)
	if err != nil {
		r.log.WithError(err).WithField("agent", actingID).Error("forced pass rejected")
		return
	}
	r.broadcastEvents(res)
}

// broadcastEvents fans an operation's events out as notifications.
func (r *Runner) broadcastEvents(res *engine.Result) {
	if res == nil {
		return
	}
	for _, ev := range res.Events {
		msg := eventMessage(ev)
		if msg == "" {
			continue
		}
		r.notifyAll(protocol.Notification(msg))
	}
}

func (r *Runner) notifyAll(env protocol.Envelope) {
	for _, a := range r.agents {
		a.Notify(env)
	}
}

// eventMessage renders an engine event as a notification line.
func eventMessage(ev engine.Event) string {
	switch ev.Type {
	case engine.EventCardPlayed:
		if ev.Count == 2 {
			return fmt.Sprintf("%s played a double %s", ev.Player, ev.Card)
		}
		return fmt.Sprintf("%s played %s", ev.Player, ev.Card)
	case engine.EventCardDrawn:
		if ev.Count == 0 {
			return fmt.Sprintf("%s could not draw: no cards left", ev.Player)
		}
		return fmt.Sprintf("%s drew a card", ev.Player)
	case engine.EventPlayerSkipped:
		return fmt.Sprintf("%s was skipped", ev.Player)
	case engine.EventDirectionReversed:
		return "direction of play reversed"
	case engine.EventWarStarted:
		return "a war has started"
	case engine.EventWarStacked:
		return fmt.Sprintf("draw penalty stacked to %d", ev.Count)
	case engine.EventWarPaid:
		return fmt.Sprintf("%s drew %d penalty cards", ev.Player, ev.Count)
	case engine.EventOneCardLeft:
		return fmt.Sprintf("%s has one card left", ev.Player)
	case engine.EventTurnPassed:
		return fmt.Sprintf("%s passed", ev.Player)
	case engine.EventDeckReshuffled:
		return "discard pile reshuffled into the deck"
	case engine.EventGameEnded:
		return fmt.Sprintf("%s wins with %d points", ev.Player, ev.Count)
	}
	return ""
}
