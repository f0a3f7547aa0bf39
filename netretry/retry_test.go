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
package netretry_test

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/netretry"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transient", func() {
	It("retries connection resets and refusals", func() {
		Expect(netretry.Transient(syscall.ECONNRESET)).To(BeTrue())
		Expect(netretry.Transient(syscall.ECONNREFUSED)).To(BeTrue())
	})

	It("retries deadline exceeded", func() {
		Expect(netretry.Transient(context.DeadlineExceeded)).To(BeTrue())
	})

	It("never retries error status codes", func() {
		err := fmt.Errorf("%w: 403", data.ErrStatus)
		Expect(netretry.Transient(err)).To(BeFalse())
	})

	It("never retries malformed feeds", func() {
		err := fmt.Errorf("%w: bad json", data.ErrFeedFormat)
		Expect(netretry.Transient(err)).To(BeFalse())
	})

	It("treats unknown errors as permanent", func() {
		Expect(netretry.Transient(errors.New("boom"))).To(BeFalse())
		Expect(netretry.Transient(nil)).To(BeFalse())
	})
})

var _ = Describe("Do", func() {
	It("returns nil on first success", func() {
		calls := 0
		err := netretry.Do(context.Background(), "op", 3, time.Millisecond, func() error {
			calls++
			return nil
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("retries transient failures until success", func() {
		calls := 0
		err := netretry.Do(context.Background(), "op", 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return syscall.ECONNRESET
			}
			return nil
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(calls).To(Equal(3))
	})

	It("gives up after the attempt budget", func() {
		calls := 0
		err := netretry.Do(context.Background(), "op", 3, time.Millisecond, func() error {
			calls++
			return syscall.ECONNRESET
		})

		Expect(err).To(MatchError(syscall.ECONNRESET))
		Expect(calls).To(Equal(3))
	})

	It("stops immediately on permanent errors", func() {
		calls := 0
		permanent := fmt.Errorf("%w: 404", data.ErrStatus)
		err := netretry.Do(context.Background(), "op", 3, time.Millisecond, func() error {
			calls++
			return permanent
		})

		Expect(err).To(MatchError(data.ErrStatus))
		Expect(calls).To(Equal(1))
	})

	It("honors context cancellation between attempts", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := netretry.Do(ctx, "op", 3, time.Second, func() error {
			return syscall.ECONNRESET
		})

		Expect(err).To(MatchError(context.Canceled))
	})
})
