package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/lookup"
)

// config structure
type lookupConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Lookup         lookup.Config
}

var (
	config   lookupConfig
	sentence = pflag.String("sentence", "", "The sentence containing the word.")
	cursor   = pflag.Int("cursor", 0, "Character offset of the cursor within the sentence.")
	repeat   = pflag.Int("repeat", 1, "Number of times to look the word up; repeats are answered from the sentence cache.")
)

func initConfig() {
	err := lib.InitializeConfig("./config/lookup.yml", map[string]interface{}{
		"log_level": "info",
		"lookup": map[string]interface{}{
			"endpoint": lookup.DefaultEndpoint,
			"timeout":  lookup.DefaultTimeout.String(),
		},
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func main() {
	lib.UseConsoleLogger(os.Stderr)
	initConfig()

	if *sentence == "" {
		log.Fatal().Msg("--sentence is required")
	}

	client := lookup.NewClient(config.Lookup)
	if err := run(context.Background(), client, os.Stdout, *sentence, *cursor, *repeat); err != nil {
		log.Error().Err(err).Str("endpoint", client.Endpoint()).Msg("lookup failed")
		os.Exit(1)
	}
}

// run looks the word up repeat times, writing one JSON line per lookup. A word the
// service does not know is written as null and is not an error.
func run(ctx context.Context, client *lookup.Client, out io.Writer, sentence string, cursor, repeat int) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	for i := 0; i < repeat; i++ {
		start := time.Now()
		result, err := client.Lookup(ctx, sentence, cursor)
		if err != nil {
			return fmt.Errorf("lookup %d: %w", i+1, err)
		}
		log.Debug().Int("attempt", i+1).Dur("took", time.Since(start)).Msg("lookup complete")
		if err := enc.Encode(result); err != nil {
			return err
		}
	}
	return nil
}
