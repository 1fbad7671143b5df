package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"gitabot/loader/internal"
	"gitabot/loader/service"
	"gitabot/model"
	"gitabot/store"
	"gitabot/types"

	"github.com/joho/godotenv"
)

func init() {
	mustLoadEnvVariables()
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: loader <pdf-path>")
	}
	path := os.Args[1]

	ctx := context.Background()
	port, _ := strconv.Atoi(os.Getenv("PG_PORT"))
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", os.Getenv("PG_HOST"), port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))
	pool, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		log.Fatal("error to connect to Postgres database ", err)
	}
	defer pool.Close()

	if err := pool.Init(ctx); err != nil {
		log.Fatal("error to create tables ", err)
	}

	tokenizer, err := internal.NewTokenizer()
	if err != nil {
		log.Fatal("error to load tokenizer ", err)
	}

	cfg := types.IngestConfig{
		MaxTokens: envInt("CHUNK_MAX_TOKENS", 500),
		BatchSize: envInt("EMBED_BATCH_SIZE", 100),
		CropTop:   envFloat("PDF_CROP_TOP", 0),
		CropBot:   envFloat("PDF_CROP_BOTTOM", 0),
	}

	embedder := model.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"))
	svc := service.New(pool, embedder, tokenizer, cfg)

	corpus, err := svc.IngestFile(ctx, path)
	if err != nil {
		log.Fatal("ingestion failed: ", err)
	}

	log.Printf("Ingested %q: %d chunks upserted", corpus.Title, corpus.Chunks)
}

func mustLoadEnvVariables() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func envInt(key string, def int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return def
}
