// Command simple-agent is a reference Jedna agent: it plays the first
// playable card (choosing the wild color it holds most of), otherwise
// draws, otherwise passes. Useful for smoke-testing the harness.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedna-game/jedna/internal/protocol"
)

func main() {
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 4096), 1<<20)
	out := bufio.NewWriter(os.Stdout)

	for in.Scan() {
		var env protocol.Envelope
		if err := json.Unmarshal(in.Bytes(), &env); err != nil {
			fmt.Fprintln(os.Stderr, "bad envelope:", err)
			continue
		}
		switch env.Type {
		case protocol.TypeRequestAction:
			reply, err := json.Marshal(decide(env.State))
			if err != nil {
				fmt.Fprintln(os.Stderr, "encode reply:", err)
				continue
			}
			out.Write(reply)
			out.WriteByte('\n')
			out.Flush()
		case protocol.TypeGameEnd:
			return
		}
	}
}

// decide picks the move: first playable card, else draw, else pass.
func decide(state *protocol.GameView) protocol.AgentAction {
	if state != nil && len(state.PlayableCards) > 0 {
		card := state.PlayableCards[0]
		action := protocol.AgentAction{Action: protocol.ActionPlay, Card: card}
		if card == "w" || strings.HasPrefix(card, "wd") {
			action.WildColor = bestColor(state.Hand)
		}
		return action
	}
	if state != nil {
		for _, a := range state.AvailableActions {
			if a == protocol.ActionDraw {
				return protocol.AgentAction{Action: protocol.ActionDraw}
			}
		}
	}
	return protocol.AgentAction{Action: protocol.ActionPass}
}

// bestColor returns the wire name of the color the hand holds most of.
func bestColor(hand []string) string {
	counts := map[byte]int{}
	for _, c := range hand {
		if len(c) > 0 && c[0] != 'w' {
			counts[c[0]]++
		}
	}
	best, bestN := byte('r'), -1
	for _, letter := range []byte{'r', 'g', 'b', 'y'} {
		if counts[letter] > bestN {
			best, bestN = letter, counts[letter]
		}
	}
	names := map[byte]string{'r': "red", 'g': "green", 'b': "blue", 'y': "yellow"}
	return names[best]
}
