package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/internal/config"
	"github.com/storychat/storychat/internal/devserver"
	"github.com/storychat/storychat/pkg/logger"
)

func main() {
	godotenv.Load()
	logger.Setup()

	server := devserver.New(devserver.NewConversationStore(), devserver.NewAssistant())

	addr := ":" + config.GetServerPort()
	if err := server.ListenAndServe(addr); err != nil {
		log.Error().Err(err).Msg("Dev server stopped")
		os.Exit(1)
	}
}
