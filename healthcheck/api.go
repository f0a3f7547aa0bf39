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

// Package healthcheck reports scheduled-run liveness to healthchecks.io.
// The update cron pings after each run; a missed or failed ping raises an
// alert.
package healthcheck

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/gosimple/slug"
	"github.com/redflagprofits/rfdata/data"
	"github.com/spf13/viper"
)

// apiBase and pingBase are overridable so self-hosted healthchecks
// instances work with the same configuration keys.
func apiBase() string {
	if base := viper.GetString("healthchecks.api_url"); base != "" {
		return base
	}
	return "https://healthchecks.io"
}

func pingBase() string {
	if base := viper.GetString("healthchecks.ping_url"); base != "" {
		return base
	}
	return "https://hc-ping.com"
}

// Create a new healthchecks.io check and return the id
func Create(name string, tags []string, schedule string) (string, error) {
	command := struct {
		APIKey      string `json:"api_key"`
		Name        string `json:"name"`
		Description string `json:"desc,omitempty"`
		Grace       int    `json:"grace"`
		Schedule    string `json:"schedule"`
		Slug        string `json:"slug"`
		Tags        string `json:"tags"`
		Timezone    string `json:"tz"`
	}{
		APIKey:   viper.GetString("healthchecks.apikey"),
		Name:     name,
		Slug:     slug.Make(name),
		Tags:     strings.Join(tags, " "),
		Grace:    3600,
		Schedule: schedule,
		Timezone: "America/New_York",
	}

	result := struct {
		PingURL string `json:"ping_url"`
	}{}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(command).
		SetResult(&result).
		Post(apiBase() + "/api/v3/checks/")

	if err != nil {
		return "", err
	}

	if resp.StatusCode() > 201 {
		return "", fmt.Errorf("%w: %d", data.ErrStatus, resp.StatusCode())
	}

	checkID := strings.Split(result.PingURL, "/")
	healthCheckID := checkID[len(checkID)-1]

	return healthCheckID, nil
}

// Ping signals a successful run
func Ping(id string) error {
	return ping(fmt.Sprintf("%s/%s", pingBase(), id))
}

// Fail signals a failed run
func Fail(id string) error {
	return ping(fmt.Sprintf("%s/%s/fail", pingBase(), id))
}

func ping(url string) error {
	client := resty.New()
	resp, err := client.R().Get(url)
	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", data.ErrStatus, resp.StatusCode())
	}

	return nil
}

// Pause monitoring of a health check
func Pause(id string) error {
	return checkAction(id, "pause")
}

// Resume monitoring of a health check
func Resume(id string) error {
	return checkAction(id, "resume")
}

func checkAction(id, action string) error {
	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", viper.GetString("healthchecks.apikey")).
		Post(fmt.Sprintf("%s/api/v3/checks/%s/%s", apiBase(), id, action))

	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", data.ErrStatus, resp.StatusCode())
	}

	return nil
}
