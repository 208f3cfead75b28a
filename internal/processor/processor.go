package processor

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"latrones/internal/core"
	"latrones/internal/game"
	"latrones/internal/service"
)

// Processor handles command execution on top of the service layer
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdInteract:
		return p.handleInteract(cmd)
	case CmdResetGame:
		return p.handleResetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	gameID, snap, err := p.svc.CreateGame(args.Opening, cmd.UserID)
	if err != nil {
		if errors.Is(err, service.ErrTooManyGames) {
			return p.errorResponse("game limit reached", core.ErrResourceLimit)
		}
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	log.Debug().Str("game_id", gameID).Str("opening", string(snap.Opening)).Msg("game created")

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(gameID, snap),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	snap, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(cmd.GameID, snap),
	}
}

// handleInteract forwards a square click. Clicks that leave the game
// unchanged are reported as errors so clients can tell them apart.
func (p *Processor) handleInteract(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.InteractRequest)
	if !ok || args.Square == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	snap, err := p.svc.Interact(cmd.GameID, *args.Square)
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, service.ErrGameOver):
		return p.errorResponse(fmt.Sprintf("game is over: %s", stateName(snap)), core.ErrGameOver)
	case errors.Is(err, service.ErrIllegalAction):
		return p.errorResponse(fmt.Sprintf("square %d has no effect", *args.Square), core.ErrIllegalAction)
	case err != nil:
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}

	if snap.Over {
		log.Info().Str("game_id", cmd.GameID).Str("winner", snap.Winner.String()).Msg("game finished")
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(cmd.GameID, snap),
	}
}

func (p *Processor) handleResetGame(cmd Command) ProcessorResponse {
	var args core.ResetRequest
	if cmd.Args != nil {
		req, ok := cmd.Args.(core.ResetRequest)
		if !ok {
			return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
		}
		args = req
	}

	snap, err := p.svc.ResetGame(cmd.GameID, args.Opening)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(cmd.GameID, snap),
	}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{Success: true}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	ascii, err := p.svc.GetBoard(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    core.BoardResponse{Board: ascii},
	}
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

func stateName(snap game.Snapshot) string {
	return core.StateFor(snap.Over, snap.Winner).String()
}

// buildGameResponse converts a snapshot into its wire form
func buildGameResponse(gameID string, snap game.Snapshot) core.GameResponse {
	light, dark := snap.Light, snap.Dark

	resp := core.GameResponse{
		GameID:       gameID,
		Opening:      snap.Opening,
		Turn:         snap.Turn.String(),
		Phase:        snap.Phase.String(),
		State:        stateName(snap),
		Board:        boardCodes(snap.Board[:]),
		ValidTargets: snap.ValidTargets,
		Placed:       core.SideCounts{Light: snap.Placed[0], Dark: snap.Placed[1]},
		Pieces:       core.SideCounts{Light: snap.Pieces[0], Dark: snap.Pieces[1]},
		ActionCount:  snap.ActionCount,
		Players: core.PlayersResponse{
			Light: &light,
			Dark:  &dark,
		},
	}

	if snap.Over {
		resp.Winner = snap.Winner.String()
	}

	if snap.Selected >= 0 {
		selected := snap.Selected
		resp.Selected = &selected
	}

	if resp.ValidTargets == nil {
		resp.ValidTargets = []int{}
	}

	if last := snap.LastResult; last != nil {
		resp.LastAction = &core.ActionInfo{
			Square: last.Square,
			Side:   last.Side.String(),
			Phase:  last.Phase.String(),
		}
	}

	return resp
}

// boardCodes widens the occupancy so it encodes as a JSON array
func boardCodes(occupancy []uint8) []int {
	codes := make([]int, len(occupancy))
	for i, code := range occupancy {
		codes[i] = int(code)
	}
	return codes
}
