package config

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the runtime settings. Values come from defaults, then an
// optional tubesort.yaml in the working directory or $HOME/.tubesort,
// then TUBESORT_* environment variables.
type Config struct {
	// Depth is the restart budget for hidden-piece searches.
	Depth int
	// UndoBudget is used when a puzzle file does not specify one.
	UndoBudget int
	Debug      bool
	// HistoryFile backs the interactive shell's readline history.
	HistoryFile string
}

func (c *Config) Load() error {
	v := viper.New()
	v.SetDefault("depth", 8)
	v.SetDefault("undo-budget", 5)
	v.SetDefault("debug", false)
	v.SetDefault("history-file", "/tmp/tubesort-history")

	v.SetEnvPrefix("tubesort")
	// Hyphenated keys map to settable variable names (TUBESORT_UNDO_BUDGET).
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tubesort")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.tubesort")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("read config file")
	}

	c.Depth = v.GetInt("depth")
	c.UndoBudget = v.GetInt("undo-budget")
	c.Debug = v.GetBool("debug")
	c.HistoryFile = v.GetString("history-file")
	return nil
}
