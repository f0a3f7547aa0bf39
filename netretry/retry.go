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

// Package netretry wraps flaky network calls with bounded, linearly
// backed-off retries. Only transport-level failures are retried; error
// status codes and malformed payloads are permanent and returned
// immediately.
package netretry

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/redflagprofits/rfdata/data"
	"github.com/rs/zerolog"
)

// Do runs fn up to attempts times, waiting baseDelay * attempt between
// tries. It returns the first permanent error, the last transient error
// when attempts are exhausted, or nil on success.
func Do(ctx context.Context, operation string, attempts int, baseDelay time.Duration, fn func() error) error {
	logger := zerolog.Ctx(ctx)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if !Transient(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		delay := baseDelay * time.Duration(attempt)
		logger.Warn().Err(err).Str("Operation", operation).Int("Attempt", attempt).
			Dur("Delay", delay).Msg("transient failure, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return err
}

// Transient reports whether err looks like a transport-level failure worth
// retrying. Error status codes and feed parse failures are never transient.
func Transient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, data.ErrStatus) || errors.Is(err, data.ErrFeedFormat) {
		return false
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
