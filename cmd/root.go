package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/neofeed/neofeed/internal/app"
	"github.com/neofeed/neofeed/internal/config"
	"github.com/neofeed/neofeed/internal/utils"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `                   __                 _
	 _ __   ___  ___  / _| ___  ___  __| |
	| '_ \ / _ \/ _ \| |_ / _ \/ _ \/ _' |
	| | | |  __/ (_) |  _|  __/  __/ (_| |
	|_| |_|\___|\___/|_|  \___|\___|\__,_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "neofeed",
	Short: "Browse NASA's near-Earth object feed from the command line.",
	Long: LOGO + `neofeed pages through the NASA NeoWs feed one day at a time, looks up single objects and keeps a log of what you shared.

Get a free API key at https://api.nasa.gov and put it in $HOME/.neofeed.yaml under nasa.apikey.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.neofeed.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP("env", "e", "", "Environment. Available: dev, prod, test (default from config, else dev)")

	viper.BindPFlag("proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	viper.BindPFlag("nasa.environment", rootCmd.PersistentFlags().Lookup("env"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".neofeed")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// Set defaults before a missing config file gets written out with them.
	viper.SetDefault("nasa.environment", string(config.Dev))
	viper.SetDefault("nasa.apikey", config.DefaultAPIKey)
	viper.SetDefault("nasa.baseurl", config.DefaultBaseURL)
	viper.SetDefault("nasa.feedpath", config.DefaultFeedPath)
	viper.SetDefault("nasa.lookuppath", config.DefaultLookupPath)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.neofeed.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// dependencies builds the configuration from viper and wires the services
// for the selected environment.
func dependencies() (*app.Dependencies, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	utils.Log.Debugf("Environment %s, API root %s", cfg.Environment, cfg.BaseURL)
	return app.NewDependencies(cfg)
}
