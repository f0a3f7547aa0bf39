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

	"github.com/redflagprofits/rfdata/backblaze"
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/dataset"
	"github.com/redflagprofits/rfdata/dictionary"
	"github.com/redflagprofits/rfdata/encode"
	"github.com/redflagprofits/rfdata/forbes"
	"github.com/redflagprofits/rfdata/fred"
	"github.com/redflagprofits/rfdata/healthcheck"
	"github.com/redflagprofits/rfdata/reconcile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch today's billionaires feed and merge it into the dataset",
	Long: `The update sub-command downloads the current real-time billionaires feed,
encodes it into columnar form, annotates it with inflation indices, and
merges it into the dataset. Records already stored for the feed's
observation date are replaced. Intended to run daily from cron.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())
		summary := data.NewRunSummary()

		dicts := dictionary.Load(viper.GetString("dictionary.dir"))
		store := dataset.New(viper.GetString("dataset.path"))

		rows, dateStr, err := forbes.New().Fetch(ctx)
		if err != nil {
			log.Error().Err(err).Msg("fetching billionaires feed failed")
			notifyAndExit(summary)
		}

		enc := encode.New(dicts)
		records := make([]*data.BillionaireRecord, 0, len(rows))
		for _, row := range rows {
			records = append(records, enc.Record(row, dateStr))
		}

		records = reconcile.Dedupe(records)

		fredClient := fred.New()
		if fredClient.Enabled() {
			cpi, pce := fredClient.Lookup(ctx, dateStr)
			for _, rec := range records {
				rec.CPIU = cpi
				rec.PCE = pce
			}
		} else {
			log.Warn().Msg("no FRED api key configured, skipping inflation annotation")
		}

		summary.NumRecords = len(records)

		if err := store.Merge(records, dateStr); err != nil {
			log.Error().Err(err).Msg("merging records into dataset failed")
			summary.NumFailed = len(records)
			notifyAndExit(summary)
		}

		if err := dicts.SaveAll(); err != nil {
			log.Error().Err(err).Msg("saving dictionaries failed")
		}

		summary.NumSuccess = len(records)
		summary.Finish()

		if bucket := viper.GetString("backblaze.bucket"); bucket != "" {
			if err := backblaze.UploadDataset(store.Filename, bucket); err != nil {
				log.Error().Err(err).Msg("uploading dataset to backblaze failed")
			}
		}

		notify(summary)

		log.Info().Str("Date", dateStr).Int("NumRecords", summary.NumSuccess).
			Str("RunID", summary.RunID.String()).Msg("update complete")
	},
}

// notify pings the configured health check with the run outcome.
func notify(summary *data.RunSummary) {
	checkID := viper.GetString("healthchecks.check_id")
	if checkID == "" {
		return
	}

	var err error
	if summary.Status == data.RunSuccess {
		err = healthcheck.Ping(checkID)
	} else {
		err = healthcheck.Fail(checkID)
	}

	if err != nil {
		log.Error().Err(err).Msg("pinging health check failed")
	}
}

func notifyAndExit(summary *data.RunSummary) {
	summary.Finish()
	notify(summary)
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
