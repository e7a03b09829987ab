package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/lp-recommender/internal/gap"
	"github.com/spigell/lp-recommender/internal/scoring"
	"github.com/spigell/lp-recommender/internal/tiering"
)

var validate = validator.New()

// Config holds every engine constant. It is immutable once passed to New.
type Config struct {
	Scoring scoring.Config `mapstructure:"scoring"`
	Tiers   tiering.Config `mapstructure:"tiers"`
	Gap     gap.Config     `mapstructure:"gap"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Scoring: scoring.DefaultConfig(),
		Tiers:   tiering.DefaultConfig(),
		Gap:     gap.DefaultConfig(),
	}
}

// Validate checks the configuration constraints declared on the struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}

// Decode overrides the default configuration with the values of a decoded
// config section, e.g. the "engine" key of the config file. Unknown keys are
// rejected.
func Decode(input map[string]any) (Config, error) {
	cfg := DefaultConfig()
	if len(input) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, fmt.Errorf("creating engine config decoder: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return cfg, fmt.Errorf("decoding engine config: %w", err)
	}

	return cfg, cfg.Validate()
}
