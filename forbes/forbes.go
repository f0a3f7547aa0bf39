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

// Package forbes fetches the real-time billionaires feed. The feed serves
// mobile browsers a leaner payload, so requests carry a mobile user agent.
package forbes

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/go-resty/resty/v2"
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/netretry"
	"github.com/rs/zerolog"
)

const FeedURL = "https://www.forbes.com/forbesapi/person/rtb/0/-estWorthPrev/true.json"

const (
	maxRetries = 3
	retryDelay = 5 * time.Second
)

// browserHeaders make the request look like an ordinary mobile browser; the
// feed rejects obvious bot traffic.
var browserHeaders = map[string]string{
	"authority":       "www.forbes.com",
	"cache-control":   "max-age=0",
	"user-agent":      "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36",
	"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"accept-language": "en-US,en;q=0.9",
}

type Client struct {
	client *resty.Client
}

func New() *Client {
	return &Client{
		client: resty.New().SetHeaders(browserHeaders).SetTimeout(30 * time.Second),
	}
}

// Fetch downloads the live feed and returns the raw person rows together
// with the feed's observation date in YYYY-MM-DD form.
func (forbes *Client) Fetch(ctx context.Context) ([]map[string]any, string, error) {
	logger := zerolog.Ctx(ctx)

	var body []byte

	err := netretry.Do(ctx, "forbes fetch", maxRetries, retryDelay, func() error {
		resp, err := forbes.client.R().SetContext(ctx).Get(FeedURL)
		if err != nil {
			return err
		}

		if resp.StatusCode() >= 400 {
			return fmt.Errorf("%w: %d from %s", data.ErrStatus, resp.StatusCode(), FeedURL)
		}

		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	rows, err := ParseFeed(body)
	if err != nil {
		return nil, "", err
	}

	dateStr := feedDate(rows)

	logger.Info().Int("NumRows", len(rows)).Str("Date", dateStr).Msg("fetched billionaires feed")
	return rows, dateStr, nil
}

// ParseFeed extracts the person rows from a feed response body. It is used
// for live fetches and for archived snapshot replays alike.
func ParseFeed(body []byte) ([]map[string]any, error) {
	var feed struct {
		PersonList struct {
			PersonsLists []map[string]any `json:"personsLists"`
		} `json:"personList"`
	}

	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: %s", data.ErrFeedFormat, err)
	}

	if feed.PersonList.PersonsLists == nil {
		return nil, fmt.Errorf("%w: missing personList.personsLists", data.ErrFeedFormat)
	}

	return feed.PersonList.PersonsLists, nil
}

// feedDate derives the batch observation date from the first row carrying a
// millisecond timestamp. Rows without one fall back to today.
func feedDate(rows []map[string]any) string {
	for _, row := range rows {
		if ts, ok := row["timestamp"].(float64); ok {
			return time.UnixMilli(int64(ts)).UTC().Format("2006-01-02")
		}
	}

	return time.Now().UTC().Format("2006-01-02")
}
