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

// Package fred annotates records with inflation index values from the
// Federal Reserve Economic Data API. Inflation data is best-effort: a
// missing api key or an unreachable API leaves records un-annotated and
// never fails a run.
package fred

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/netretry"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const observationsURL = "https://api.stlouisfed.org/fred/series/observations"

const (
	// CPIUSeries is the Consumer Price Index for All Urban Consumers.
	CPIUSeries = "CPIAUCNS"

	// PCESeries is the Personal Consumption Expenditures price index.
	PCESeries = "PCEPI"
)

// The observation window reaches back far enough to cover monthly release
// lag and slightly forward to catch same-month publications.
const (
	windowBefore = 90 * 24 * time.Hour
	windowAfter  = 30 * 24 * time.Hour
)

const (
	maxRetries = 3
	retryDelay = 5 * time.Second
)

// Observation is a single dated value of an economic series.
type Observation struct {
	Date  time.Time
	Value float64
}

type Client struct {
	apiKey string
	client *resty.Client
}

func New() *Client {
	return &Client{
		apiKey: viper.GetString("fred.api_key"),
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Enabled reports whether an api key is configured. Callers should log a
// single warning and skip inflation annotation when it returns false.
func (fred *Client) Enabled() bool {
	return fred.apiKey != ""
}

// Lookup returns the CPI-U and PCE values for the month of the given crawl
// date. Either pointer may be nil when the series could not be fetched or
// holds no usable observations.
func (fred *Client) Lookup(ctx context.Context, dateStr string) (*float64, *float64) {
	logger := zerolog.Ctx(ctx)

	if !fred.Enabled() {
		return nil, nil
	}

	target, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		logger.Error().Err(err).Str("DateStr", dateStr).Msg("cannot parse inflation target date")
		return nil, nil
	}

	start := target.Add(-windowBefore)
	end := target.Add(windowAfter)

	var cpi, pce *float64

	if obs, err := fred.Series(ctx, CPIUSeries, start, end); err == nil {
		cpi = MonthlyValue(obs, target)
	} else {
		logger.Error().Err(err).Str("Series", CPIUSeries).Msg("fetching inflation series failed")
	}

	if obs, err := fred.Series(ctx, PCESeries, start, end); err == nil {
		pce = MonthlyValue(obs, target)
	} else {
		logger.Error().Err(err).Str("Series", PCESeries).Msg("fetching inflation series failed")
	}

	return cpi, pce
}

// Series fetches all observations of a series in [start, end]. Placeholder
// values (".") are dropped.
func (fred *Client) Series(ctx context.Context, seriesID string, start, end time.Time) ([]Observation, error) {
	logger := zerolog.Ctx(ctx)

	var resp fredResponse

	err := netretry.Do(ctx, "fred series", maxRetries, retryDelay, func() error {
		req, err := fred.client.R().
			SetContext(ctx).
			SetQueryParam("api_key", fred.apiKey).
			SetQueryParam("file_type", "json").
			SetQueryParam("series_id", seriesID).
			SetQueryParam("observation_start", start.Format("2006-01-02")).
			SetQueryParam("observation_end", end.Format("2006-01-02")).
			SetResult(&resp).Get(observationsURL)
		if err != nil {
			return err
		}

		if req.StatusCode() >= 400 {
			return fmt.Errorf("%w: %d for series %s", data.ErrStatus, req.StatusCode(), seriesID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	observations := make([]Observation, 0, len(resp.Observations))
	for _, obs := range resp.Observations {
		if obs.Value == "." {
			// no observation
			continue
		}

		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			logger.Error().Err(err).Str("DateStr", obs.Date).Msg("parsing observation date failed")
			continue
		}

		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			logger.Error().Err(err).Str("ValueStr", obs.Value).Msg("parsing observation value failed")
			continue
		}

		observations = append(observations, Observation{Date: date, Value: value})
	}

	return observations, nil
}

// MonthlyValue picks the observation matching the target's calendar month.
// When no observation lands in that month the latest observation in the
// window is used instead; an empty window yields nil.
func MonthlyValue(observations []Observation, target time.Time) *float64 {
	if len(observations) == 0 {
		return nil
	}

	for _, obs := range observations {
		if obs.Date.Year() == target.Year() && obs.Date.Month() == target.Month() {
			value := obs.Value
			return &value
		}
	}

	latest := observations[0]
	for _, obs := range observations[1:] {
		if obs.Date.After(latest.Date) {
			latest = obs
		}
	}

	value := latest.Value
	return &value
}

type fredResponse struct {
	Count        int               `json:"count"`
	Observations []fredObservation `json:"observations"`
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}
