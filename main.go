package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/namegame/shiritori/internal/game"
	"github.com/namegame/shiritori/internal/httpserver"
	"github.com/namegame/shiritori/internal/store"
	"github.com/namegame/shiritori/internal/verify"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	variant := game.Variant(getEnv("GAME_VARIANT", string(game.VariantChain)))
	if variant != game.VariantChain && variant != game.VariantLetterDrop {
		log.Fatal().Str("variant", string(variant)).Msg("unknown GAME_VARIANT")
	}

	var st game.Store
	switch backend := getEnv("STORE_BACKEND", "file"); backend {
	case "file":
		st = store.NewFile(getEnv("DATA_FILE", "data/shiritori.json"))
	case "sqlite":
		db, err := store.NewSQLite(getEnv("DB_PATH", "data/shiritori.db"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open sqlite store")
		}
		defer db.Close()
		st = db
	case "memory":
		st = store.NewMemory()
	default:
		log.Fatal().Str("backend", backend).Msg("unknown STORE_BACKEND")
	}

	engine := game.NewEngine(variant, verify.New(os.Getenv("ANILIST_URL")), st)
	if err := engine.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to load game state")
	}

	srv := httpserver.New(engine)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Str("variant", string(variant)).Msg("starting shiritori server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
