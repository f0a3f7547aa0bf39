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

	"github.com/gocarina/gocsv"
	"github.com/redflagprofits/rfdata/dataset"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export daily wealth totals as CSV",
	Long: `The export sub-command aggregates the dataset into one row per crawl date
(record count, total and average wealth, inflation indices) and writes the
result as CSV for the site generator.`,
	Run: func(cmd *cobra.Command, args []string) {
		store := dataset.New(viper.GetString("dataset.path"))

		records, err := store.ReadAll()
		if err != nil {
			log.Fatal().Err(err).Msg("could not read dataset")
		}

		totals := dataset.DailyTotals(records)

		fh, err := os.Create(exportOutput)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", exportOutput).Msg("could not create output file")
		}
		defer fh.Close()

		if err := gocsv.MarshalFile(&totals, fh); err != nil {
			log.Fatal().Err(err).Str("FileName", exportOutput).Msg("writing csv failed")
		}

		log.Info().Int("NumDates", len(totals)).Str("FileName", exportOutput).Msg("exported daily totals")
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "daily_totals.csv", "output file name")
}
