// Command jedna runs one Jedna game between external agents.
//
// Each agent is given as -agent "id=command"; the command is run
// through /bin/sh -c and must speak the line-delimited JSON protocol
// on stdin/stdout. The final result record is printed as JSON.
//
//	jedna -agent p1="python3 simple_agent.py" -agent p2="./my-bot"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jedna-game/jedna/internal/agent"
	"github.com/jedna-game/jedna/internal/config"
	"github.com/jedna-game/jedna/internal/runner"
)

// seatFlag collects repeated -agent id=command flags in seating order.
type seatFlag struct {
	ids      []string
	commands []string
}

func (f *seatFlag) String() string { return strings.Join(f.ids, ",") }

func (f *seatFlag) Set(value string) error {
	id, command, ok := strings.Cut(value, "=")
	if !ok || id == "" || command == "" {
		return fmt.Errorf("want id=command, got %q", value)
	}
	f.ids = append(f.ids, id)
	f.commands = append(f.commands, command)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	var seats seatFlag
	turnTimeout := flag.Duration("turn-timeout", cfg.TurnTimeout, "per-turn agent timeout (0 = no limit)")
	gameTimeout := flag.Duration("game-timeout", cfg.GameTimeout, "whole-game timeout (0 = no limit)")
	seed := flag.Uint64("seed", 0, "deck shuffle seed (0 = from the clock)")
	flag.Var(&seats, "agent", "agent seat as id=command (repeatable, seating order)")
	flag.Parse()

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)

	if len(seats.ids) < 2 {
		log.Fatal("need at least two -agent seats")
	}

	agents := make([]runner.AgentClient, 0, len(seats.ids))
	for i, id := range seats.ids {
		agents = append(agents, agent.New(id, seats.commands[i], log))
	}

	r := runner.New(agents, runner.Options{
		TurnTimeout: *turnTimeout,
		GameTimeout: *gameTimeout,
		StopGrace:   2 * time.Second,
		Seed:        *seed,
		Log:         log,
	})

	result, err := r.Run()
	if err != nil {
		log.WithError(err).Fatal("game aborted")
	}

	out, err := json.Marshal(result)
	if err != nil {
		log.WithError(err).Fatal("encode result")
	}
	fmt.Println(string(out))
}
