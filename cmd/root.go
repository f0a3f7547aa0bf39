// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rfdata",
	Short: "rfdata maintains the billionaire wealth dataset behind Red Flag Profits",
	Long: `rfdata is a command line utility for building and maintaining a columnar
dataset of billionaire wealth observations. It ingests the daily real-time
billionaires feed, recovers historical gaps from the Internet Archive, and
annotates every observation date with CPI-U and PCE inflation indices so
wealth can be compared across years in constant dollars.

The dataset lives in a single parquet file with dictionary-encoded
categorical columns; the dictionaries live alongside it as JSON files and
must travel with the parquet file to keep the codes decodable.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rfdata.toml)")

	rootCmd.PersistentFlags().String("dataset", "", "path to the parquet dataset file")
	if err := viper.BindPFlag("dataset.path", rootCmd.PersistentFlags().Lookup("dataset")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for dataset failed")
	}

	rootCmd.PersistentFlags().String("dictionaries", "", "directory holding the dictionary json files")
	if err := viper.BindPFlag("dictionary.dir", rootCmd.PersistentFlags().Lookup("dictionaries")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for dictionaries failed")
	}

	viper.SetDefault("dataset.path", "data/all_billionaires.parquet")
	viper.SetDefault("dictionary.dir", "data/dictionaries")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rfdata" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".rfdata")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}
