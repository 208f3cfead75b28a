package commands

import (
	"fmt"
	"strings"

	"latrones/internal/board"
	"latrones/internal/client/display"
	"latrones/internal/core"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new [empty|fixed]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "click",
		ShortName:   "c",
		Description: "Click a square (place, select or move)",
		Usage:       "click <square>  (a1..h8 or 0..63)",
		Handler:     clickHandler,
	})

	r.Register(&Command{
		Name:        "reset",
		ShortName:   "u",
		Description: "Restart the current game",
		Usage:       "reset [empty|fixed]",
		Handler:     resetHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func parseOpening(args []string) (core.Opening, error) {
	if len(args) == 0 {
		return core.OpeningEmpty, nil
	}
	switch opening := core.Opening(strings.ToLower(args[0])); opening {
	case core.OpeningEmpty, core.OpeningFixed:
		return opening, nil
	default:
		return "", fmt.Errorf("unknown opening: %s (use empty or fixed)", args[0])
	}
}

func newGameHandler(s Session, args []string) error {
	opening, err := parseOpening(args)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().CreateGame(opening)
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	s.SetGameState(resp)

	out := s.Output()
	fmt.Fprintf(out, "%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Fprintf(out, "Opening: %s | Phase: %s | Turn: %s\n", resp.Opening, resp.Phase, display.ColorForSide(resp.Turn))
	return nil
}

func joinGameHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	gameID := args[0]

	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetCurrentGame(gameID)
	s.SetGameState(resp)

	fmt.Fprintf(s.Output(), "%sJoined game: %s%s\n", display.Green, gameID, display.Reset)
	printSummary(s, resp)
	return nil
}

func clickHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: click <square>")
	}

	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	square, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}

	resp, err := s.GetClient().Interact(gameID, square)
	if err != nil {
		return err
	}

	s.SetGameState(resp)

	fmt.Fprintf(s.Output(), "%s%s%s\n", display.Green, describeAction(resp), display.Reset)
	if resp.Winner != "" {
		fmt.Fprintf(s.Output(), "%sGame over: %s%s\n", display.Magenta, resp.State, display.Reset)
	}
	return nil
}

// describeAction summarizes the accepted click in resp.LastAction
func describeAction(resp *core.GameResponse) string {
	last := resp.LastAction
	if last == nil {
		return "Action accepted"
	}

	name := board.SquareName(last.Square)
	switch {
	case last.Phase == "placement":
		return fmt.Sprintf("%s placed a piece on %s", sideTitle(last.Side), name)
	case resp.Selected != nil && *resp.Selected == last.Square:
		targets := make([]string, 0, len(resp.ValidTargets))
		for _, t := range resp.ValidTargets {
			targets = append(targets, board.SquareName(t))
		}
		return fmt.Sprintf("%s selected %s (targets: %s)", sideTitle(last.Side), name, strings.Join(targets, " "))
	default:
		return fmt.Sprintf("%s moved to %s", sideTitle(last.Side), name)
	}
}

func sideTitle(side string) string {
	if side == "" {
		return side
	}
	return strings.ToUpper(side[:1]) + side[1:]
}

func resetHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	opening, err := parseOpening(args)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().ResetGame(gameID, opening)
	if err != nil {
		return err
	}

	s.SetGameState(resp)
	fmt.Fprintf(s.Output(), "%sGame reset (%s opening)%s\n", display.Green, resp.Opening, display.Reset)
	return nil
}

func printSummary(s Session, game *core.GameResponse) {
	fmt.Fprintf(s.Output(), "Turn: %s | Phase: %s | State: %s | Actions: %d\n",
		display.ColorForSide(game.Turn), game.Phase, game.State, game.ActionCount)
	fmt.Fprintf(s.Output(), "Placed: L %d / D %d | On board: L %d / D %d\n",
		game.Placed.Light, game.Placed.Dark, game.Pieces.Light, game.Pieces.Dark)
}

func showBoardHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient()

	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}

	ascii, err := c.GetBoard(gameID)
	if err != nil {
		return err
	}

	s.SetGameState(game)

	out := s.Output()
	fmt.Fprintln(out)
	display.RenderBoard(out, ascii.Board)
	fmt.Fprintln(out)
	printSummary(s, game)

	if game.Selected != nil {
		fmt.Fprintf(out, "Selected: %s\n", board.SquareName(*game.Selected))
	}
	if game.LastAction != nil {
		fmt.Fprintf(out, "Last action: %s\n", describeAction(game))
	}
	return nil
}

func gameStateHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetGameState(resp)

	fmt.Fprintf(s.Output(), "%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(s.Output(), resp)
	return nil
}

func deleteGameHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if len(args) > 0 {
		gameID = args[0]
	}

	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.GetClient().DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.GetCurrentGame() {
		s.SetCurrentGame("")
	}

	fmt.Fprintf(s.Output(), "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func pollHandler(s Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	out := s.Output()
	actionCount := s.GetLastActionCount()

	fmt.Fprintf(out, "%sLong-polling for updates (action count: %d)...%s\n",
		display.Cyan, actionCount, display.Reset)

	resp, err := s.GetClient().GetGameWithPoll(gameID, actionCount)
	if err != nil {
		return err
	}

	s.SetGameState(resp)

	if resp.ActionCount != actionCount {
		fmt.Fprintf(out, "%sGame updated%s\n", display.Green, display.Reset)
		if resp.LastAction != nil {
			fmt.Fprintf(out, "Last action: %s\n", describeAction(resp))
		}
	} else {
		fmt.Fprintf(out, "%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}
	return nil
}
