package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/lp-recommender/internal/engine"
	"github.com/spigell/lp-recommender/internal/filtering"
	"github.com/spigell/lp-recommender/internal/logger"
	"github.com/spigell/lp-recommender/internal/pathway"
	"github.com/spigell/lp-recommender/internal/secrets"
	"github.com/spigell/lp-recommender/internal/store"
	"github.com/spigell/lp-recommender/internal/store/db"
)

const (
	PromptYes                 = "Yes"
	PromptNo                  = "No"
	PromptReportByTier        = "Report by tier"
	PromptAppendToExcludeFile = "Append all pathways to exclude file"
	PromptPathwaysToFile      = "Dump pathways to file"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rank learning pathways and store them for the given users",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceP("user", "u", nil, "user ids to process (repeatable or comma separated)")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before replacing stored pathways")
	runCmd.Flags().StringP("exclude-file", "e", "", "special file with pathways to exclude. Default is unset.")
	runCmd.Flags().IntP("concurrency", "c", 0, "number of users processed at once")

	viper.BindPFlag("exclude-file", runCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("concurrency", runCmd.Flags().Lookup("concurrency"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the lp-recommender", zap.String("version", version))

	users, err := cmd.Flags().GetStringSlice("user")
	if err != nil || len(users) == 0 {
		logger.Fatal("at least one user is required", zap.String("hint", "pass --user"))
	}

	driver, err := openDriver(config)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err),
			zap.String("hint", "set LP_DSN_FILE environment variable or the 'database.dsn' key in the configuration file"),
		)
	}
	defer driver.Close()

	eng, err := newEngine(config, driver, logger)
	if err != nil {
		logger.Fatal("creating the engine", zap.Error(err))
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if len(users) == 1 && !autoApprove {
		if err := runInteractive(ctx, eng, users[0], config, logger); err != nil && !errors.Is(err, errExit) {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	failed := runAll(ctx, eng, users, config.Concurrency, logger)
	if failed > 0 {
		logger.Fatal("some users failed", zap.Int("failed", failed), zap.Int("total", len(users)))
	}

	logger.Info("all users processed", zap.Int("total", len(users)))
}

func openDriver(config *Config) (store.Driver, error) {
	dsn, err := secrets.Load(secrets.Source{
		Name:  "database dsn",
		File:  config.Database.DSNFile,
		Value: config.Database.DSN,
		Env:   "LP_DSN",
	})
	if err != nil {
		return nil, err
	}

	return db.NewDBDriver(config.Database.Driver, dsn)
}

func newEngine(config *Config, driver store.Driver, logger *zap.Logger) (*engine.Engine, error) {
	engineConfig, err := engine.Decode(config.Engine)
	if err != nil {
		return nil, err
	}

	// do not bother error since the config was decoded already
	pretty, _ := json.MarshalIndent(engineConfig, "", "  ")
	logger.Debug(fmt.Sprintf("starting with engine config: \n %s", pretty))

	return engine.New(engineConfig, driver, prepareFilters(config, logger), logger)
}

func prepareFilters(config *Config, logger *zap.Logger) *filtering.Filtering {
	var excluded []string
	if config.Exclude != nil {
		excluded = config.Exclude.Candidates
	}

	steps := []filtering.Filter{
		filtering.NewValidity(),
		filtering.NewExcludedCandidates(excluded),
		filtering.NewExcludeFile(config.ExcludeFile),
	}

	if len(excluded) == 0 {
		filtering.DisableByName(steps, "excluded_candidates", "no candidates excluded in config")
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return filtering.New(steps, logger)
}

// runAll processes every user. A failed user does not stop the others and
// never touches the rows of users already written.
func runAll(ctx context.Context, eng *engine.Engine, users []string, concurrency int, base *zap.Logger) int {
	var g errgroup.Group
	g.SetLimit(concurrency)

	failures := make([]error, len(users))
	for i, userID := range users {
		g.Go(func() error {
			if _, err := eng.Run(ctx, userID); err != nil {
				failures[i] = err
				logger.WithUser(base, userID).Error("processing user", zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	return failed
}

// runInteractive computes the pathways of a single user and asks before
// replacing the stored rows. The user lock is held for the whole session.
func runInteractive(ctx context.Context, eng *engine.Engine, userID string, config *Config, logger *zap.Logger) error {
	unlock := eng.Lock(userID)
	defer unlock()

	res, err := eng.Compute(ctx, userID)
	if err != nil {
		return err
	}

	items := []string{PromptYes, PromptNo, PromptReportByTier, PromptPathwaysToFile}
	if config.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}

	prompt := promptui.Select{
		Label: fmt.Sprintf("Replace stored pathways of user %s?", userID),
		Items: items,
	}

	for {
		logger.Info("current list of pathways", zap.Int("count", res.Len()))

		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := handleAction(ctx, action, eng, res, config, logger); err != nil {
			return err
		}
	}
}

func handleAction(ctx context.Context, action string, eng *engine.Engine, res *engine.Result, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptYes:
		if err := eng.Replace(ctx, res); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByTier:
		pretty, _ := json.MarshalIndent(res.ReportByTier(), "", "  ")
		logger.Info(string(pretty), zap.Int("pathways count", res.Len()))
		return nil
	case PromptPathwaysToFile:
		filename, err := res.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		excluded, err := pathway.GetExcludedFromFile(config.ExcludeFile)
		if err != nil {
			return err
		}

		excluded.Append(res.Pool.ToExcluded())

		if err := excluded.ToFile(config.ExcludeFile); err != nil {
			return err
		}

		logger.Info("appended to exclude file", zap.String("filename", config.ExcludeFile), zap.Int("count", res.Len()))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
