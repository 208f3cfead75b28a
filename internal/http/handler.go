package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"latrones/internal/core"
	"latrones/internal/processor"
	"latrones/internal/service"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

// NewFiberApp builds the API application. Rate limits double in dev mode.
func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: service.WaitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	validateToken := svc.ValidateToken

	auth := api.Group("/auth")
	auth.Post("/register", ipLimiter(5, time.Minute, "5 registrations per minute allowed"), h.RegisterHandler)
	auth.Post("/login", ipLimiter(10, time.Minute, "10 login attempts per minute allowed"), h.LoginHandler)
	auth.Get("/me", AuthRequired(validateToken), h.GetCurrentUserHandler)

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	games := api.Group("/games")
	games.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   1 * time.Second,
		KeyGenerator: clientKey,
		LimitReached: limitReached(fmt.Sprintf("%d requests per second allowed", maxReq)),
	}))
	games.Use(contentTypeValidator)
	games.Use(validationMiddleware)

	games.Post("/", OptionalAuth(validateToken), h.CreateGame)
	games.Get("/:gameId", gameIDValidator, h.GetGame)
	games.Delete("/:gameId", gameIDValidator, h.DeleteGame)
	games.Post("/:gameId/squares", gameIDValidator, h.Interact)
	games.Post("/:gameId/reset", gameIDValidator, h.ResetGame)
	games.Get("/:gameId/board", gameIDValidator, h.GetBoard)

	return app
}

func ipLimiter(limit int, expiration time.Duration, details string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: limitReached(details),
	})
}

func limitReached(details string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
			Error:   "rate limit exceeded",
			Code:    core.ErrRateLimitExceeded,
			Details: details,
		})
	}
}

// clientKey identifies the caller, preferring the first X-Forwarded-For hop
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.IP()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP statuses
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrIllegalAction, core.ErrGameOver:
		return fiber.StatusConflict
	case core.ErrResourceLimit:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func respond(c *fiber.Ctx, resp processor.ProcessorResponse, successStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(successStatus)
	}
	return c.Status(successStatus).JSON(resp.Data)
}

func validationBypass(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "validation bypass detected",
		Code:  core.ErrInternalError,
	})
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
		"games":   h.svc.GameCount(),
	})
}

// CreateGame starts a new game, owned by the caller when authenticated
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return validationBypass(c)
	}

	cmd := processor.NewCreateGameCommand(req)
	cmd.UserID, _ = c.Locals("userID").(string)

	return respond(c, h.proc.Execute(cmd), fiber.StatusCreated)
}

// GetGame returns the game state. With wait=true and the client's last seen
// actionCount it blocks until the game changes or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if c.Query("wait", "false") == "true" {
		actionCount, err := strconv.Atoi(c.Query("actionCount", "-1"))
		if err != nil {
			actionCount = -1
		}

		snap, err := h.svc.GetGame(gameID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
				Error: "game not found",
				Code:  core.ErrGameNotFound,
			})
		}

		if snap.ActionCount == actionCount {
			ctx := c.Context()
			select {
			case <-h.svc.RegisterWait(ctx, gameID, actionCount):
			case <-ctx.Done():
				return nil
			}
		}
	}

	return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
}

// Interact applies a click on a square
func (h *HTTPHandler) Interact(c *fiber.Ctx) error {
	req, ok := validatedBody[core.InteractRequest](c)
	if !ok {
		return validationBypass(c)
	}

	return respond(c, h.proc.Execute(processor.NewInteractCommand(c.Params("gameId"), req)), fiber.StatusOK)
}

// ResetGame starts the game over
func (h *HTTPHandler) ResetGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.ResetRequest](c)
	if !ok {
		return validationBypass(c)
	}

	return respond(c, h.proc.Execute(processor.NewResetGameCommand(c.Params("gameId"), req)), fiber.StatusOK)
}

// DeleteGame removes a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	return respond(c, h.proc.Execute(processor.NewDeleteGameCommand(c.Params("gameId"))), fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(c.Params("gameId"))), fiber.StatusOK)
}
