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
package data

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// RunSummary describes the outcome of one update or recovery run. A run is
// successful when at least one unit of work (one crawl date) succeeded.
type RunSummary struct {
	RunID      uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	NumRecords int
	NumSuccess int
	NumFailed  int
	Status     RunStatus
}

func NewRunSummary() *RunSummary {
	return &RunSummary{
		RunID:     uuid.New(),
		StartTime: time.Now(),
		Status:    RunFailed,
	}
}

// Finish stamps the end time and derives the final status.
func (summary *RunSummary) Finish() {
	summary.EndTime = time.Now()
	if summary.NumSuccess > 0 {
		summary.Status = RunSuccess
	}
}

// SuccessRate returns the fraction of units of work that succeeded, in the
// range [0, 1]. A run with no units counts as fully failed.
func (summary *RunSummary) SuccessRate() float64 {
	total := summary.NumSuccess + summary.NumFailed
	if total == 0 {
		return 0
	}
	return float64(summary.NumSuccess) / float64(total)
}
