// Package web provides HTTP handlers and REST API endpoints for builder
// sessions.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/flowsmith/flowsmith/pkg/builder"
	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/flowsmith/flowsmith/pkg/services"
)

type APIHandlers struct {
	sessions  *services.Manager
	validator *validator.Validate
}

func NewAPIHandlers(sessions *services.Manager, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		sessions:  sessions,
		validator: validator,
	}
}

func (h *APIHandlers) CreateSession(c fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	session, err := h.sessions.Create(c.Context(), services.CreateSessionRequest{
		Steps:         req.Steps,
		Fields:        req.Fields,
		Compact:       req.Compact,
		EnableZoomPan: req.EnableZoomPan,
		SaveDelay:     time.Duration(req.SaveDelayMS) * time.Millisecond,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	response := SessionResponse{ID: session.ID}
	session.Do(func(b *builder.Builder) {
		response.StepResponse = stepResponse(b)
	})

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *APIHandlers) GetStep(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var response StepResponse

	session.Do(func(b *builder.Builder) {
		response = stepResponse(b)
	})

	return c.JSON(response)
}

func (h *APIHandlers) CompileIntent(c fiber.Ctx) error {
	payload := c.Body()

	var intent models.WorkflowIntent
	if err := json.Unmarshal(payload, &intent); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	_, _, err := h.sessions.CompileIntent(c.Params("id"), payload, &intent)
	if err != nil {
		return handleServiceError(c, err)
	}

	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var response GraphResponse

	session.Do(func(b *builder.Builder) {
		response = graphResponse(b)
	})

	return c.JSON(response)
}

func (h *APIHandlers) GetCanvas(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var response CanvasResponse

	session.Do(func(b *builder.Builder) {
		canvas := b.Canvas()
		panX, panY := canvas.Pan()

		response = CanvasResponse{
			GraphResponse: graphResponse(b),
			Zoom:          canvas.Zoom(),
			PanX:          panX,
			PanY:          panY,
			Tooltip:       canvas.Tooltip(),
			Menu:          canvas.Menu(),
		}
	})

	return c.JSON(response)
}

func (h *APIHandlers) CanvasInteraction(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var req InteractionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var response CanvasResponse

	session.Do(func(b *builder.Builder) {
		cv := b.Canvas()

		switch req.Type {
		case "node_click":
			cv.HandleNodeClick(req.NodeID)
		case "connection_click":
			cv.HandleConnectionClick(req.From, req.To)
		case "node_enter":
			cv.HandleNodeEnter(req.NodeID)
		case "node_leave":
			cv.HandleNodeLeave(req.NodeID)
		case "key":
			cv.HandleKey(req.Key)
		case "context_menu":
			cv.OpenContextMenu(req.NodeID, int(req.X), int(req.Y))
		case "canvas_click":
			cv.HandleCanvasClick()
		case "wheel":
			cv.HandleWheel(req.DeltaY, req.Modifier)
		case "pan_begin":
			cv.BeginPan(req.X, req.Y)
		case "pan_move":
			cv.MovePan(req.X, req.Y)
		case "pan_end":
			cv.EndPan()
		}

		panX, panY := cv.Pan()

		response = CanvasResponse{
			GraphResponse: graphResponse(b),
			Zoom:          cv.Zoom(),
			PanX:          panX,
			PanY:          panY,
			Tooltip:       cv.Tooltip(),
			Menu:          cv.Menu(),
		}
	})

	return c.JSON(response)
}

func (h *APIHandlers) ChangeField(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	name := c.Params("name")
	if name == "" {
		return badRequest(c, "Field name is required")
	}

	var req FieldChangeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	var (
		response StepResponse
		unknown  bool
	)

	session.Do(func(b *builder.Builder) {
		if !b.KnownField(name) {
			unknown = true

			return
		}

		b.HandleFieldChange(name, req.Value)
		response = stepResponse(b)
	})

	if unknown {
		return handleServiceError(c, fmt.Errorf("%w: %s", services.ErrUnknownField, name))
	}

	return c.JSON(response)
}

func (h *APIHandlers) BlurField(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	name := c.Params("name")
	if name == "" {
		return badRequest(c, "Field name is required")
	}

	var (
		response StepResponse
		unknown  bool
	)

	session.Do(func(b *builder.Builder) {
		if !b.KnownField(name) {
			unknown = true

			return
		}

		b.HandleBlur(name)
		response = stepResponse(b)
	})

	if unknown {
		return handleServiceError(c, fmt.Errorf("%w: %s", services.ErrUnknownField, name))
	}

	return c.JSON(response)
}

func (h *APIHandlers) CompleteStep(c fiber.Ctx) error {
	return h.advance(c, func(b *builder.Builder) models.FormErrors {
		return b.MarkComplete()
	})
}

func (h *APIHandlers) NextStep(c fiber.Ctx) error {
	return h.advance(c, func(b *builder.Builder) models.FormErrors {
		return b.Next()
	})
}

// advance runs a step transition and reports the resulting form state. A
// validation failure is part of the state, not an HTTP error.
func (h *APIHandlers) advance(c fiber.Ctx, transition func(b *builder.Builder) models.FormErrors) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var (
		response StepResponse
		failed   bool
	)

	session.Do(func(b *builder.Builder) {
		failed = transition(b) != nil
		response = stepResponse(b)
	})

	if failed {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(response)
	}

	return c.JSON(response)
}

func (h *APIHandlers) PreviousStep(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var response StepResponse

	session.Do(func(b *builder.Builder) {
		b.Previous()
		response = stepResponse(b)
	})

	return c.JSON(response)
}

func (h *APIHandlers) GoToStep(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var req GoToStepRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var (
		response StepResponse
		moved    bool
	)

	session.Do(func(b *builder.Builder) {
		moved = b.GoToStep(req.Step)
		response = stepResponse(b)
	})

	if !moved {
		// The indicator row only navigates to current or completed steps.
		return handleServiceError(c, fmt.Errorf("%w: step %d", services.ErrStepNotAllowed, req.Step))
	}

	return c.JSON(response)
}

func (h *APIHandlers) Submit(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var (
		response StepResponse
		failed   bool
	)

	session.Do(func(b *builder.Builder) {
		failed = b.Submit(c.Context()) != nil
		response = stepResponse(b)
	})

	if failed {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(response)
	}

	return c.JSON(response)
}

func (h *APIHandlers) ResetSession(c fiber.Ctx) error {
	if err := h.sessions.Reset(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var response StepResponse

	session.Do(func(b *builder.Builder) {
		response = stepResponse(b)
	})

	return c.JSON(response)
}

func (h *APIHandlers) DeleteSession(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetEvents(c fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"events": session.Events()})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	storeCheck, ok := h.sessions.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowsmith API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		message = "Flowsmith API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"store": storeCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func stepResponse(b *builder.Builder) StepResponse {
	step, _ := b.Tracker().Step()

	errors := b.Errors()
	if errors == nil {
		errors = models.FormErrors{}
	}

	return StepResponse{
		Step:       step,
		Fields:     b.RenderStep(),
		Errors:     errors,
		CanAdvance: b.CanAdvance(),
		Progress:   b.Tracker().Progress(),
		Indicators: b.Tracker().Indicators(),
		Notice:     b.Notice(),
	}
}

func graphResponse(b *builder.Builder) GraphResponse {
	canvas := b.Canvas()

	return GraphResponse{
		Nodes:            canvas.Nodes(),
		Connections:      canvas.Connections(),
		Positions:        canvas.Positions(),
		Paths:            canvas.Paths(),
		NodeStates:       canvas.NodeStates(),
		ConnectionStates: canvas.ConnectionStates(),
		Empty:            canvas.Empty(),
	}
}
