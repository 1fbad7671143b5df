package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gitabot/model"
	"gitabot/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct {
	answer     string
	err        error
	lastUserID uuid.UUID
	lastQ      string
}

func (f *fakeAnswerer) Answer(ctx context.Context, userID uuid.UUID, question string) (string, error) {
	f.lastUserID = userID
	f.lastQ = question
	return f.answer, f.err
}

type fakeChats struct {
	entries []types.ConversationEntry
	err     error
}

func (f *fakeChats) Append(ctx context.Context, userID uuid.UUID, question, answer string) error {
	return f.err
}

func (f *fakeChats) History(ctx context.Context, userID uuid.UUID, limit int) ([]types.ConversationEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > limit {
		return f.entries[len(f.entries)-limit:], nil
	}
	return f.entries, nil
}

func newTestApp(answerer *fakeAnswerer, chats *fakeChats) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewBotHandler(answerer, chats)
	bot := app.Group("/bot")
	bot.Post("/generate", h.HandleGenerate)
	bot.Get("/history/:user_id", h.HandleHistory)
	return app
}

func postGenerate(t *testing.T, app *fiber.App, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/bot/generate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleGenerate(t *testing.T) {
	answerer := &fakeAnswerer{answer: "Parth, dharma is duty. 🌿"}
	app := newTestApp(answerer, &fakeChats{})

	userID := uuid.New()
	resp := postGenerate(t, app, types.GenerateParams{UserID: userID.String(), Question: "What is dharma?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out types.GenerateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Parth, dharma is duty. 🌿", out.Response)
	assert.Equal(t, userID, answerer.lastUserID)
	assert.Equal(t, "What is dharma?", answerer.lastQ)
}

func TestHandleGenerateInvalidBody(t *testing.T) {
	app := newTestApp(&fakeAnswerer{}, &fakeChats{})

	req := httptest.NewRequest(http.MethodPost, "/bot/generate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleGenerateMissingQuestion(t *testing.T) {
	app := newTestApp(&fakeAnswerer{}, &fakeChats{})

	resp := postGenerate(t, app, types.GenerateParams{UserID: uuid.New().String()})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleGenerateMalformedUserID(t *testing.T) {
	answerer := &fakeAnswerer{}
	app := newTestApp(answerer, &fakeChats{})

	resp := postGenerate(t, app, types.GenerateParams{UserID: "not-a-uuid", Question: "What is dharma?"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, answerer.lastQ, "pipeline must not run for a malformed id")
}

func TestHandleGenerateUpstreamFailure(t *testing.T) {
	answerer := &fakeAnswerer{err: model.NewUpstreamError("generate", errors.New("quota"))}
	app := newTestApp(answerer, &fakeChats{})

	resp := postGenerate(t, app, types.GenerateParams{UserID: uuid.New().String(), Question: "What is dharma?"})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "generate")
}

func TestHandleGenerateContractViolation(t *testing.T) {
	answerer := &fakeAnswerer{err: &model.ContractError{Raw: "Yes", Err: errors.New("not json")}}
	app := newTestApp(answerer, &fakeChats{})

	resp := postGenerate(t, app, types.GenerateParams{UserID: uuid.New().String(), Question: "hi"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandleHistory(t *testing.T) {
	chats := &fakeChats{entries: []types.ConversationEntry{
		{Role: types.RoleUser, Text: "What is dharma?"},
		{Role: types.RoleBot, Text: "Parth, dharma is duty."},
	}}
	app := newTestApp(&fakeAnswerer{}, chats)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/bot/history/"+userID.String()+"?limit=10", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out types.HistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, userID.String(), out.UserID)
	require.Len(t, out.Messages, 2)
	assert.Equal(t, types.RoleUser, out.Messages[0].Role)
	assert.Equal(t, types.RoleBot, out.Messages[1].Role)
}

func TestHandleHistoryBadLimit(t *testing.T) {
	app := newTestApp(&fakeAnswerer{}, &fakeChats{})

	req := httptest.NewRequest(http.MethodGet, "/bot/history/"+uuid.New().String()+"?limit=zero", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleHistoryMalformedUserID(t *testing.T) {
	app := newTestApp(&fakeAnswerer{}, &fakeChats{})

	req := httptest.NewRequest(http.MethodGet, "/bot/history/42", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
