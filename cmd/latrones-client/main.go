// Package main implements an interactive client for the Latrones server API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"latrones/internal/client/api"
	"latrones/internal/client/commands"
	"latrones/internal/client/display"
	"latrones/internal/client/session"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "API server base URL")
	flag.Parse()

	s := &session.Session{
		APIBaseURL: *apiURL,
		Client:     api.New(*apiURL),
		Out:        os.Stdout,
	}

	registry := commands.NewRegistry(s)

	items := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range registry.Names() {
		items = append(items, readline.PcItem(name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("latrones"),
		HistoryFile:     ".latrones_history",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sLatrones Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		if registry.Execute(line) {
			break
		}
	}
}

func buildPrompt(s *session.Session) string {
	parts := []string{}

	if s.Username != "" {
		parts = append(parts, fmt.Sprintf("%s%s%s", display.Magenta, s.Username, display.Reset))
	}
	if s.Username != "" && s.CurrentGame != "" {
		parts = append(parts, fmt.Sprintf("%s - %s", display.Yellow, display.Reset))
	}
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, fmt.Sprintf("%s%s%s", display.White, id, display.Reset))
	}

	promptStr := "latrones"
	if len(parts) > 0 {
		promptStr += display.Yellow + " [" + display.Reset + strings.Join(parts, "") + display.Yellow + "]"
	}

	if state := s.CurrentGameState; state != nil {
		if state.Winner != "" {
			promptStr += " - " + display.ColorForSide(state.Winner) + display.Yellow + " won"
		} else {
			promptStr += fmt.Sprintf(" - Turn:%s%s(%s)", display.ColorForSide(state.Turn), display.Yellow, state.Phase)
		}
	}

	return display.Prompt(promptStr)
}
