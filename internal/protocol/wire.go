// Package protocol defines the line-delimited JSON wire format spoken
// between the harness and agent processes, and the pure serializer
// that projects engine state into the agent's view.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/jedna-game/jedna/engine"
)

// Envelope type names.
const (
	TypeRequestAction = "request_action"
	TypeNotification  = "notification"
	TypeError         = "error"
	TypeGameEnd       = "game_end"
)

// Envelope is one harness→agent line. Exactly one payload group is
// populated, selected by Type.
type Envelope struct {
	Type    string         `json:"type"`
	State   *GameView      `json:"state,omitempty"`   // request_action
	Message string         `json:"message,omitempty"` // notification, error
	Winner  string         `json:"winner,omitempty"`  // game_end
	Scores  map[string]int `json:"scores,omitempty"`  // game_end
}

// Notification builds an informational envelope.
func Notification(message string) Envelope {
	return Envelope{Type: TypeNotification, Message: message}
}

// ErrorEnvelope builds an error envelope.
func ErrorEnvelope(message string) Envelope {
	return Envelope{Type: TypeError, Message: message}
}

// GameEnd builds the final envelope. winner is empty for a draw.
func GameEnd(winner string, scores map[string]int) Envelope {
	return Envelope{Type: TypeGameEnd, Winner: winner, Scores: scores}
}

// RequestAction wraps a view in a request_action envelope.
func RequestAction(view *GameView) Envelope {
	return Envelope{Type: TypeRequestAction, State: view}
}

// Action names an agent may reply with.
const (
	ActionPlay = "play"
	ActionDraw = "draw"
	ActionPass = "pass"
)

// AgentAction is one agent→harness line: the reply to a request_action.
type AgentAction struct {
	Action     string `json:"action"`
	Card       string `json:"card,omitempty"`
	WildColor  string `json:"wild_color,omitempty"`
	DoublePlay bool   `json:"double_play,omitempty"`
}

// ParseAction decodes and validates one agent reply line.
func ParseAction(line []byte) (*AgentAction, error) {
	var a AgentAction
	if err := json.Unmarshal(line, &a); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	switch a.Action {
	case ActionPlay:
		if a.Card == "" {
			return nil, fmt.Errorf("play action without a card")
		}
	case ActionDraw, ActionPass:
	default:
		return nil, fmt.Errorf("unknown action %q", a.Action)
	}
	return &a, nil
}

// Wild color names on the wire.
var wildColorNames = map[string]engine.Color{
	"red":    engine.ColorRed,
	"green":  engine.ColorGreen,
	"blue":   engine.ColorBlue,
	"yellow": engine.ColorYellow,
}

// ParseWildColor maps a wire color name to an engine color.
func ParseWildColor(name string) (engine.Color, error) {
	if c, ok := wildColorNames[name]; ok {
		return c, nil
	}
	return engine.ColorWild, fmt.Errorf("unknown wild color %q", name)
}
