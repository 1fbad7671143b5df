package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"gitabot/app/agent"
	"gitabot/app/api"
	"gitabot/model"
	"gitabot/store"

	"github.com/gofiber/fiber/v2"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	listenAddr string
	logger     *slog.Logger
}

func NewServer(addr string) *Server {
	return &Server{
		listenAddr: addr,
		logger:     slog.Default(),
	}
}

func (s *Server) Stop() {
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()
	port, _ := strconv.Atoi(os.Getenv("PG_PORT"))
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", os.Getenv("PG_HOST"), port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))
	pool, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		log.Fatal("error to connect to Postgres database ", err)
		return
	}

	if err := pool.Init(ctx); err != nil {
		log.Fatal("error to create tables ", err)
		return
	}

	// Provider clients are built once and reused by every request.
	geminiClient, err := model.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatal("error to create Gemini client ", err)
		return
	}
	defer geminiClient.Close()

	topK, _ := strconv.Atoi(os.Getenv("TOP_K"))

	var (
		embedder   = model.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"))
		classifier = model.NewGeminiClassifier(geminiClient)
		generator  = model.NewGeminiGenerator(geminiClient)
		retriever  = agent.NewRetriever(embedder, pool, topK)
		bot        = agent.New(s.logger, classifier, retriever, generator, pool)

		app          = fiber.New(config)
		checkHandler = api.NewCheckHandler()
		botHandler   = api.NewBotHandler(bot, pool)

		check    = app.Group("/check")
		botGroup = app.Group("/bot")
	)

	check.Get("/healthy", checkHandler.HandleHealthy)
	botGroup.Post("/generate", botHandler.HandleGenerate)
	botGroup.Get("/history/:user_id", botHandler.HandleHistory)

	err = app.Listen(s.listenAddr)
	if err != nil {
		s.logger.Error("error to start server", "error", err.Error())
		return
	}
}
