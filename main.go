package main

import (
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bananablitz/go-server/internal/game"
	"github.com/bananablitz/go-server/internal/httpserver"
	"github.com/bananablitz/go-server/internal/mailer"
	"github.com/bananablitz/go-server/internal/puzzle"
	"github.com/bananablitz/go-server/internal/store"
	"os"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	players := store.NewPlayers(db)
	puzzles := puzzle.NewClient(getEnv("PUZZLE_API_URL", puzzle.DefaultURL))
	engine := game.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	mail := mailer.FromEnv()
	if !mail.Configured() {
		log.Warn().Msg("SMTP not configured; outgoing email disabled")
	}

	srv := httpserver.New(db, players, puzzles, engine, mail)
	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Msg("starting go-server")
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
