package api

import (
	"context"
	"strconv"

	"gitabot/store"
	"gitabot/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultHistoryLimit = 10

// Answerer runs the question pipeline. Implemented by agent.Agent.
type Answerer interface {
	Answer(ctx context.Context, userID uuid.UUID, question string) (string, error)
}

type BotHandler struct {
	agent Answerer
	chats store.ChatStorer
}

func NewBotHandler(agent Answerer, chats store.ChatStorer) *BotHandler {
	return &BotHandler{
		agent: agent,
		chats: chats,
	}
}

func (h *BotHandler) HandleGenerate(c *fiber.Ctx) error {
	var params types.GenerateParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	// Reject malformed user ids before any provider call is spent.
	userID, err := uuid.Parse(params.UserID)
	if err != nil {
		return ErrInvalidID()
	}

	answer, err := h.agent.Answer(c.Context(), userID, params.Question)
	if err != nil {
		return err
	}

	return c.JSON(types.GenerateResponse{Response: answer})
}

func (h *BotHandler) HandleHistory(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return ErrInvalidID()
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return ErrBadRequest()
		}
	}

	entries, err := h.chats.History(c.Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(types.HistoryResponse{
		UserID:   userID.String(),
		Messages: entries,
	})
}
