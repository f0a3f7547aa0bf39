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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"github.com/redflagprofits/rfdata/healthcheck"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rfdataConfig struct {
	Dataset struct {
		Path string `toml:"path"`
	} `toml:"dataset"`
	Dictionary struct {
		Dir string `toml:"dir"`
	} `toml:"dictionary"`
	Fred struct {
		APIKey string `toml:"api_key,omitempty"`
	} `toml:"fred"`
	Backblaze struct {
		Bucket         string `toml:"bucket,omitempty"`
		ApplicationID  string `toml:"application_id,omitempty"`
		ApplicationKey string `toml:"application_key,omitempty"`
	} `toml:"backblaze"`
	Healthchecks struct {
		APIKey  string `toml:"apikey,omitempty"`
		CheckID string `toml:"check_id,omitempty"`
	} `toml:"healthchecks"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather configuration and write the config file",
	Run: func(cmd *cobra.Command, args []string) {
		config := rfdataConfig{}
		config.Dataset.Path = "data/all_billionaires.parquet"
		config.Dictionary.Dir = "data/dictionaries"

		monitored := false

		form := huh.NewForm(
			// Where the dataset lives
			huh.NewGroup(
				huh.NewInput().
					Title("Where should the parquet dataset be stored?").
					Value(&config.Dataset.Path),

				huh.NewInput().
					Title("Where should the dictionary json files be stored?").
					Value(&config.Dictionary.Dir),
			),

			// Optional integrations
			huh.NewGroup(
				huh.NewInput().
					Title("FRED api key (leave blank to skip inflation annotation):").
					Value(&config.Fred.APIKey),

				huh.NewInput().
					Title("Backblaze bucket for dataset backups (leave blank to skip):").
					Value(&config.Backblaze.Bucket),

				huh.NewConfirm().
					Title("Should a healthchecks.io monitor be created for the daily update?").
					Value(&monitored),
			),
		)

		if err := form.Run(); err != nil {
			log.Fatal().Err(err).Msg("error gathering configuration")
		}

		if config.Backblaze.Bucket != "" {
			credsForm := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Backblaze application id:").
						Value(&config.Backblaze.ApplicationID),

					huh.NewInput().
						Title("Backblaze application key:").
						Value(&config.Backblaze.ApplicationKey),
				),
			)

			if err := credsForm.Run(); err != nil {
				log.Fatal().Err(err).Msg("error gathering backblaze credentials")
			}
		}

		if monitored {
			apiKeyForm := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("healthchecks.io api key:").
						Value(&config.Healthchecks.APIKey),
				),
			)

			if err := apiKeyForm.Run(); err != nil {
				log.Fatal().Err(err).Msg("error gathering healthchecks api key")
			}

			checkID, err := healthcheck.Create("rfdata daily update", []string{"rfdata"}, "30 12 * * *")
			if err != nil {
				log.Error().Err(err).Msg("could not create health check, continuing without one")
			} else {
				config.Healthchecks.CheckID = checkID
			}
		}

		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".rfdata.toml")
		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		if err := os.WriteFile(configFN, configData, 0600); err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		// Print configuration summary
		{
			var sb strings.Builder
			keyword := func(s string) string {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s)
			}

			fmt.Fprintf(&sb,
				"%s\n\nConfig: %s\nDataset: %s\nDictionaries: %s\nInflation: %s\nBackups: %s\nMonitored: %s\n",
				lipgloss.NewStyle().Bold(true).Render("RFDATA CONFIGURED"),
				keyword(configFN),
				keyword(config.Dataset.Path),
				keyword(config.Dictionary.Dir),
				keyword(enabledStr(config.Fred.APIKey != "")),
				keyword(enabledStr(config.Backblaze.Bucket != "")),
				keyword(enabledStr(config.Healthchecks.CheckID != "")),
			)

			fmt.Println(
				lipgloss.NewStyle().
					Width(60).
					BorderStyle(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color("63")).
					Padding(1, 2).
					Render(sb.String()),
			)
		}
	},
}

func enabledStr(enabled bool) string {
	if enabled {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(initCmd)
}
