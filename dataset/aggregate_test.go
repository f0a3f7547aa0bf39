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
package dataset_test

import (
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/dataset"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DailyTotals", func() {
	It("aggregates wealth per crawl date in chronological order", func() {
		records := []*data.BillionaireRecord{
			testRecord("2024-03-16", "Person A", 3400.0),
			testRecord("2024-03-15", "Person A", 3300.0),
			testRecord("2024-03-15", "Person B", 1700.0),
		}

		totals := dataset.DailyTotals(records)
		Expect(totals).To(HaveLen(2))

		Expect(totals[0].Date).To(Equal("2024-03-15"))
		Expect(totals[0].NumRecords).To(Equal(2))
		Expect(totals[0].TotalWorth).To(Equal(5000.0))
		Expect(totals[0].AverageWorth).To(Equal(2500.0))

		Expect(totals[1].Date).To(Equal("2024-03-16"))
		Expect(totals[1].NumRecords).To(Equal(1))
	})

	It("excludes the empty-date bucket", func() {
		records := []*data.BillionaireRecord{
			testRecord("", "Person A", 3300.0),
			testRecord("2024-03-15", "Person B", 1700.0),
		}

		totals := dataset.DailyTotals(records)
		Expect(totals).To(HaveLen(1))
		Expect(totals[0].Date).To(Equal("2024-03-15"))
	})

	It("skips null wealth in totals but counts the record", func() {
		rec := testRecord("2024-03-15", "Person A", 0)
		rec.FinalWorth = nil

		totals := dataset.DailyTotals([]*data.BillionaireRecord{
			rec,
			testRecord("2024-03-15", "Person B", 1700.0),
		})

		Expect(totals[0].NumRecords).To(Equal(2))
		Expect(totals[0].TotalWorth).To(Equal(1700.0))
		Expect(totals[0].AverageWorth).To(Equal(850.0))
	})

	It("records inflation indices when any record carries them", func() {
		cpi := 310.3
		pce := 123.4

		rec := testRecord("2024-03-15", "Person A", 3300.0)
		rec.CPIU = &cpi
		rec.PCE = &pce

		totals := dataset.DailyTotals([]*data.BillionaireRecord{
			testRecord("2024-03-15", "Person B", 1700.0),
			rec,
		})

		Expect(totals[0].HasInflation).To(BeTrue())
		Expect(totals[0].CPIU).To(Equal(310.3))
		Expect(totals[0].PCE).To(Equal(123.4))
	})
})
