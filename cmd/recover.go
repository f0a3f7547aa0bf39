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
	"context"
	"os"
	"time"

	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/dataset"
	"github.com/redflagprofits/rfdata/dictionary"
	"github.com/redflagprofits/rfdata/healthcheck"
	"github.com/redflagprofits/rfdata/recovery"
	"github.com/redflagprofits/rfdata/wayback"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	recoverStartDate string
	recoverEndDate   string
	recoverDryRun    bool
)

// recoverCmd represents the recover command
var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Backfill missing dates from the Internet Archive",
	Long: `The recover sub-command searches the Internet Archive for captures of the
billionaires feed, determines which capture dates are missing from the
dataset, and replays the missing captures. Work is committed in batches so
an interrupted run keeps everything recovered so far.

Recovered records have no inflation annotations; run
'rfdata maintain --inflation-only' afterwards to backfill them.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		dicts := dictionary.Load(viper.GetString("dictionary.dir"))
		store := dataset.New(viper.GetString("dataset.path"))

		recoverer := recovery.New(wayback.New(), store, dicts)
		recoverer.BatchSize = viper.GetInt("recovery.batch_size")
		recoverer.GroupSize = viper.GetInt("recovery.concurrency")

		endDate := recoverEndDate
		if endDate == "" {
			endDate = time.Now().UTC().Format("2006-01-02")
		}

		// a recovery run can take hours; pause the daily-update monitor so
		// the missed ping does not page anyone
		checkID := viper.GetString("healthchecks.check_id")
		if checkID != "" && !recoverDryRun {
			if err := healthcheck.Pause(checkID); err != nil {
				log.Warn().Err(err).Msg("pausing health check failed")
			}
		}

		summary, err := recoverer.Run(ctx, recoverStartDate, endDate, recoverDryRun)

		if checkID != "" && !recoverDryRun {
			if resumeErr := healthcheck.Resume(checkID); resumeErr != nil {
				log.Warn().Err(resumeErr).Msg("resuming health check failed")
			}
		}

		if err != nil {
			log.Fatal().Err(err).Msg("recovery run failed")
		}

		log.Info().Int("NumMissing", summary.NumRecords).Int("NumRecovered", summary.NumSuccess).
			Int("NumFailed", summary.NumFailed).Dur("Elapsed", summary.EndTime.Sub(summary.StartTime)).
			Str("RunID", summary.RunID.String()).Msg("recovery complete")

		// partial failure still counts as success; only a run that recovered
		// nothing signals failure to the scheduler
		if summary.Status != data.RunSuccess {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)

	recoverCmd.Flags().StringVar(&recoverStartDate, "start-date", "2020-01-01", "earliest capture date to search (YYYY-MM-DD)")
	recoverCmd.Flags().StringVar(&recoverEndDate, "end-date", "", "latest capture date to search (default today)")
	recoverCmd.Flags().BoolVar(&recoverDryRun, "dry-run", false, "report missing dates without fetching anything")

	recoverCmd.Flags().Int("batch-size", recovery.DefaultBatchSize, "number of dates committed per dataset rewrite")
	if err := viper.BindPFlag("recovery.batch_size", recoverCmd.Flags().Lookup("batch-size")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for batch-size failed")
	}

	recoverCmd.Flags().Int("concurrency", recovery.DefaultGroupSize, "number of concurrent snapshot fetches")
	if err := viper.BindPFlag("recovery.concurrency", recoverCmd.Flags().Lookup("concurrency")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for concurrency failed")
	}
}
