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

// Package wayback discovers and replays archived copies of the
// billionaires feed from the Internet Archive. Snapshot discovery goes
// through the CDX index; replay uses the raw-content (`id_`) form of the
// replay URL so the archived JSON comes back unmodified.
package wayback

import (
	"context"
	"fmt"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"github.com/go-resty/resty/v2"
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/forbes"
	"github.com/redflagprofits/rfdata/netretry"
	"github.com/rs/zerolog"
)

const cdxURL = "https://web.archive.org/cdx/search/cdx"

// feedEndpoints are the historical shapes of the feed URL; the sort key in
// the path changed over the years so all variants are searched.
var feedEndpoints = []string{
	"https://www.forbes.com/forbesapi/person/rtb/0/position/true.json",
	"https://www.forbes.com/forbesapi/person/rtb/0/-estWorthPrev/true.json",
	"https://www.forbes.com/forbesapi/person/rtb/0/.json",
}

const (
	maxRetries = 3
	retryDelay = 5 * time.Second
)

// Snapshot is one archived capture of the feed.
type Snapshot struct {
	Timestamp  string
	Original   string
	StatusCode string
}

// Date returns the capture date in YYYY-MM-DD form, or an empty string for
// a malformed timestamp.
func (snap *Snapshot) Date() string {
	ts, err := time.Parse("20060102150405", snap.Timestamp)
	if err != nil {
		return ""
	}
	return ts.Format("2006-01-02")
}

// URL returns the raw-content replay URL for the capture.
func (snap *Snapshot) URL() string {
	return fmt.Sprintf("https://web.archive.org/web/%sid_/%s", snap.Timestamp, snap.Original)
}

type Client struct {
	client *resty.Client
}

func New() *Client {
	return &Client{
		client: resty.New().SetTimeout(5 * time.Minute),
	}
}

// Snapshots queries the CDX index for captures of every feed endpoint in
// [startDate, endDate] and returns at most one capture per day, keyed by
// date. Dates are YYYY-MM-DD strings.
func (wb *Client) Snapshots(ctx context.Context, startDate, endDate string) (map[string]*Snapshot, error) {
	logger := zerolog.Ctx(ctx)

	all := []*Snapshot{}

	for _, endpoint := range feedEndpoints {
		snapshots, err := wb.querySnapshots(ctx, endpoint, startDate, endDate)
		if err != nil {
			logger.Error().Err(err).Str("Endpoint", endpoint).Msg("cdx query failed")
			continue
		}

		logger.Info().Int("NumSnapshots", len(snapshots)).Str("Endpoint", endpoint).Msg("queried cdx index")
		all = append(all, snapshots...)
	}

	if len(all) == 0 {
		return map[string]*Snapshot{}, nil
	}

	return DailyBest(all), nil
}

// cdxQuery builds the CDX index query for one endpoint. The filter key
// repeats: status and mimetype are filtered separately so HTML block pages
// archived with a 200 never become a day's best snapshot.
func cdxQuery(endpoint, startDate, endDate string) url.Values {
	return url.Values{
		"url":      []string{endpoint},
		"output":   []string{"json"},
		"from":     []string{compactDate(startDate)},
		"to":       []string{compactDate(endDate)},
		"filter":   []string{"statuscode:200", "mimetype:application/json"},
		"collapse": []string{"timestamp:8"},
	}
}

func (wb *Client) querySnapshots(ctx context.Context, endpoint, startDate, endDate string) ([]*Snapshot, error) {
	var rows [][]string

	err := netretry.Do(ctx, "cdx query", maxRetries, retryDelay, func() error {
		resp, err := wb.client.R().
			SetContext(ctx).
			SetQueryParamsFromValues(cdxQuery(endpoint, startDate, endDate)).
			Get(cdxURL)
		if err != nil {
			return err
		}

		if resp.StatusCode() >= 400 {
			return fmt.Errorf("%w: %d from cdx index", data.ErrStatus, resp.StatusCode())
		}

		if err := json.Unmarshal(resp.Body(), &rows); err != nil {
			return fmt.Errorf("%w: %s", data.ErrFeedFormat, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// first row holds the column names
	if len(rows) < 2 {
		return nil, nil
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[name] = i
	}

	tsIdx, tsOk := columns["timestamp"]
	origIdx, origOk := columns["original"]
	statusIdx, statusOk := columns["statuscode"]
	if !tsOk || !origOk {
		return nil, fmt.Errorf("%w: cdx response missing timestamp or original column", data.ErrFeedFormat)
	}

	snapshots := make([]*Snapshot, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= tsIdx || len(row) <= origIdx {
			continue
		}

		snap := &Snapshot{Timestamp: row[tsIdx], Original: row[origIdx]}
		if statusOk && len(row) > statusIdx {
			snap.StatusCode = row[statusIdx]
		}

		if snap.Date() == "" {
			continue
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

// DailyBest keeps one snapshot per capture date, preferring the latest
// capture of the day.
func DailyBest(snapshots []*Snapshot) map[string]*Snapshot {
	best := map[string]*Snapshot{}

	for _, snap := range snapshots {
		date := snap.Date()
		if date == "" {
			continue
		}

		if existing, ok := best[date]; !ok || snap.Timestamp > existing.Timestamp {
			best[date] = snap
		}
	}

	return best
}

// Fetch replays a capture and parses its feed rows.
func (wb *Client) Fetch(ctx context.Context, snap *Snapshot) ([]map[string]any, error) {
	var body []byte

	err := netretry.Do(ctx, "wayback fetch", maxRetries, retryDelay, func() error {
		resp, err := wb.client.R().SetContext(ctx).Get(snap.URL())
		if err != nil {
			return err
		}

		if resp.StatusCode() >= 400 {
			return fmt.Errorf("%w: %d from %s", data.ErrStatus, resp.StatusCode(), snap.URL())
		}

		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return forbes.ParseFeed(body)
}

func compactDate(dateStr string) string {
	ts, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}
	return ts.Format("20060102")
}
