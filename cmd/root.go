/*
Copyright 2024

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/penny-vault/stock-dashboard/report"
	"github.com/penny-vault/stock-dashboard/stocks"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stock-dashboard",
	Short: "Analyze historical stock prices",
	Long: `Load daily stock prices from per-month folders of YAML files, compute
returns, volatility and monthly movers per ticker and print the selected report views`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := selectedViews(viper.GetStringSlice("view"))
		if err != nil {
			return err
		}

		loader := stocks.NewLoader(afero.NewOsFs(), viper.GetInt("loader.files_per_second"))
		loader.Progress = viper.GetBool("loader.progress")
		session := stocks.NewSession(loader)

		cfg, err := pipelineConfig(loader.Fs)
		if err != nil {
			return err
		}
		result, err := session.Result(cmd.Context(), cfg)
		if err != nil {
			if errors.Is(err, stocks.ErrEmptyDataset) {
				log.Error().Str("DataDir", viper.GetString("data.dir")).Msg("no data found in any folder, please check the file paths and try again")
			}
			return err
		}
		for _, w := range result.Warnings {
			log.Warn().Err(w).Msg("data warning")
		}

		if dsn := viper.GetString("database.url"); dsn != "" {
			if err := stocks.SaveToDatabase(cmd.Context(), dsn, result.Metrics, result.Monthly); err != nil {
				return err
			}
		}

		for _, view := range views {
			markdown, err := renderView(cmd.Context(), session.Loader().Fs, result, view)
			if err != nil {
				return err
			}
			if err := report.Print(cmd.OutOrStdout(), markdown, viper.GetBool("plain")); err != nil {
				return err
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLog)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is stock-dashboard.toml)")
	rootCmd.PersistentFlags().Bool("log.json", false, "print logs as json to stderr")
	viper.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("log.json"))
	rootCmd.PersistentFlags().String("log.level", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log.level"))

	// Local flags
	rootCmd.Flags().String("data-dir", "data", "directory holding one folder per partition")
	viper.BindPFlag("data.dir", rootCmd.Flags().Lookup("data-dir"))

	rootCmd.Flags().StringSliceP("partition", "p", nil, "partition folder to load, relative to data-dir (repeatable); defaults to every folder in data-dir")
	viper.BindPFlag("data.partitions", rootCmd.Flags().Lookup("partition"))

	rootCmd.Flags().String("sectors", "", "sector reference CSV (file path or http(s) URL)")
	viper.BindPFlag("sectors.reference", rootCmd.Flags().Lookup("sectors"))

	rootCmd.Flags().StringP("output", "o", "", "save the combined data to this file")
	viper.BindPFlag("output.path", rootCmd.Flags().Lookup("output"))

	rootCmd.Flags().String("output-format", "", "format of the combined data file (csv, parquet); defaults to the file extension")
	viper.BindPFlag("output.format", rootCmd.Flags().Lookup("output-format"))

	rootCmd.Flags().StringP("database-url", "d", "", "DSN for database connection; metrics are exported when set")
	viper.BindPFlag("database.url", rootCmd.Flags().Lookup("database-url"))

	rootCmd.Flags().Int("files-per-second", 0, "limit how many data files are read per second (0 is unlimited)")
	viper.BindPFlag("loader.files_per_second", rootCmd.Flags().Lookup("files-per-second"))

	rootCmd.Flags().Bool("progress", false, "show a progress bar while loading")
	viper.BindPFlag("loader.progress", rootCmd.Flags().Lookup("progress"))

	rootCmd.Flags().String("correlation-align", "date", "pair daily returns by date or by position")
	viper.BindPFlag("correlation.align", rootCmd.Flags().Lookup("correlation-align"))

	rootCmd.Flags().StringSliceP("view", "v", []string{stocks.KeyMetricsView.String()}, "report view to print, or all (repeatable)")
	viper.BindPFlag("view", rootCmd.Flags().Lookup("view"))

	rootCmd.Flags().Bool("plain", false, "print raw markdown instead of styled terminal output")
	viper.BindPFlag("plain", rootCmd.Flags().Lookup("plain"))
}

func initLog() {
	level, err := zerolog.ParseLevel(viper.GetString("log.level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !viper.GetBool("log.json") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".stock-dashboard" (without extension).
		viper.AddConfigPath("/etc/stock-dashboard/") // path to look for the config file in
		viper.AddConfigPath(fmt.Sprintf("%s/.stock-dashboard", home))
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName("stock-dashboard")
	}

	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("ConfigFile", viper.ConfigFileUsed()).Msg("Loaded config file")
	} else {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Debug().Msg("no config file found, using flags and environment")
		} else {
			log.Error().Err(err).Msg("error reading config file")
		}
	}
}
