package lib

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// HandleInterrupt blocks until SIGINT or SIGTERM arrives, then runs onInterrupt.
func HandleInterrupt(onInterrupt func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	sig := <-c
	log.Info().Str("signal", sig.String()).Msg("process interrupted")
	onInterrupt()
}
