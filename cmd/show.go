package cmd

import (
	"context"
	"encoding/json"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/lp-recommender/internal/engine"
	"github.com/spigell/lp-recommender/internal/logger"
)

var showCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Print the pathways stored for a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		show(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func show(cmd *cobra.Command, userID string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	driver, err := openDriver(config)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer driver.Close()

	eng, err := newEngine(config, driver, logger)
	if err != nil {
		logger.Fatal("creating the engine", zap.Error(err))
	}

	rows, err := eng.Stored(context.Background(), userID)
	if err != nil {
		logger.Fatal("listing stored pathways", zap.Error(err))
	}

	if len(rows) == 0 {
		logger.Info("no pathways stored", zap.String("user_id", userID))
		return
	}

	counts, err := engine.CountTiers(rows)
	if err != nil {
		logger.Warn("stored pathways carry an unknown tier", zap.Error(err))
	} else {
		logger.Info("stored pathways",
			zap.String("user_id", userID),
			zap.Int("safety", counts.Safety),
			zap.Int("likely", counts.Likely),
			zap.Int("reach", counts.Reach),
		)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		logger.Fatal("encoding stored pathways", zap.Error(err))
	}
}
