package agent

import (
	"context"
	"log/slog"
	"strings"

	"gitabot/model"
	"gitabot/store"

	"github.com/google/uuid"
)

// ContextRetriever yields the stored passages most relevant to a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) ([]string, error)
}

// Agent runs the full request pipeline: classify, retrieve, generate,
// persist. All collaborators are injected once at startup.
type Agent struct {
	logger     *slog.Logger
	classifier model.ClassifierInterface
	retriever  ContextRetriever
	generator  model.GeneratorInterface
	chats      store.ChatStorer
}

func New(logger *slog.Logger, classifier model.ClassifierInterface, retriever ContextRetriever, generator model.GeneratorInterface, chats store.ChatStorer) *Agent {
	return &Agent{
		logger:     logger,
		classifier: classifier,
		retriever:  retriever,
		generator:  generator,
		chats:      chats,
	}
}

// Answer produces the persona reply for a question and appends the exchange
// to the user's history. Greetings and casual remarks short-circuit past
// retrieval entirely.
func (a *Agent) Answer(ctx context.Context, userID uuid.UUID, question string) (string, error) {
	cls, err := a.classifier.Classify(ctx, question)
	if err != nil {
		return "", err
	}

	var answer string
	if cls.ShortCircuit() {
		a.logger.Info("greeting short-circuit", "intent", cls.Intent)
		answer = strings.TrimSpace(cls.Reply)
	} else {
		chunks, err := a.retriever.Retrieve(ctx, question)
		if err != nil {
			return "", err
		}
		a.logger.Info("context retrieved", "chunks", len(chunks))

		answer, err = a.generator.Generate(ctx, BuildPrompt(chunks, question))
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
	}

	if err := a.chats.Append(ctx, userID, question, answer); err != nil {
		return "", err
	}

	return answer, nil
}
