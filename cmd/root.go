package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "lp-recommender"
)

type Config struct {
	Database    *DatabaseConfig `mapstructure:"database"`
	ExcludeFile string          `mapstructure:"exclude-file"`
	Exclude     *struct {
		Candidates []string
	}
	// Concurrency bounds the number of users processed at once.
	Concurrency int `mapstructure:"concurrency"`
	// Engine overrides the default engine constants, see engine.Decode.
	Engine map[string]any `mapstructure:"engine"`
}

type DatabaseConfig struct {
	// Driver is either sqlite or postgres.
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "lp-recommender ranks learning pathways for users from their trait profiles",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("database.dsn-file", "LP_DSN_FILE"); err != nil {
		log.Fatalf("binding LP_DSN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is lp-recommender.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for commands touching the database.
	if runCmd.CalledAs() == "" && showCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Database == nil {
		config.Database = &DatabaseConfig{}
	}
	if config.Database.DSNFile == "" {
		config.Database.DSNFile = viper.GetString("database.dsn-file")
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	return config, nil
}
