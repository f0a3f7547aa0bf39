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
package reconcile_test

import (
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/reconcile"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func worth(v float64) *float64 {
	return &v
}

func record(date, name string) *data.BillionaireRecord {
	return &data.BillionaireRecord{CrawlDate: date, PersonName: name}
}

var _ = Describe("Dedupe", func() {
	It("leaves distinct keys untouched", func() {
		records := []*data.BillionaireRecord{
			record("2024-03-15", "Person A"),
			record("2024-03-15", "Person B"),
			record("2024-03-16", "Person A"),
		}

		Expect(reconcile.Dedupe(records)).To(HaveLen(3))
	})

	It("merges records sharing a key and keeps first-seen order", func() {
		records := []*data.BillionaireRecord{
			record("2024-03-15", "Person A"),
			record("2024-03-15", "Person B"),
			record("2024-03-15", "Person A"),
		}

		merged := reconcile.Dedupe(records)
		Expect(merged).To(HaveLen(2))
		Expect(merged[0].PersonName).To(Equal("Person A"))
		Expect(merged[1].PersonName).To(Equal("Person B"))
	})

	It("treats the same person on different dates as distinct", func() {
		records := []*data.BillionaireRecord{
			record("2024-03-15", "Person A"),
			record("2024-03-16", "Person A"),
		}

		Expect(reconcile.Dedupe(records)).To(HaveLen(2))
	})
})

var _ = Describe("MergeGroup", func() {
	It("returns single-record groups unchanged", func() {
		rec := record("2024-03-15", "Person A")
		Expect(reconcile.MergeGroup([]*data.BillionaireRecord{rec})).To(BeIdenticalTo(rec))
	})

	It("takes the maximum non-null wealth", func() {
		a := record("2024-03-15", "Person A")
		a.FinalWorth = worth(3300.0)
		b := record("2024-03-15", "Person A")
		b.FinalWorth = worth(3500.0)
		c := record("2024-03-15", "Person A")

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b, c})
		Expect(merged.FinalWorth).To(HaveValue(Equal(3500.0)))
	})

	It("keeps wealth null only when every record is null", func() {
		a := record("2024-03-15", "Person A")
		b := record("2024-03-15", "Person A")

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b})
		Expect(merged.FinalWorth).To(BeNil())
	})

	It("takes the most frequent non-empty categorical value", func() {
		a := record("2024-03-15", "Person A")
		a.City = "Austin"
		b := record("2024-03-15", "Person A")
		b.City = ""
		c := record("2024-03-15", "Person A")
		c.City = "Dallas"
		d := record("2024-03-15", "Person A")
		d.City = "Dallas"

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b, c, d})
		Expect(merged.City).To(Equal("Dallas"))
	})

	It("breaks categorical ties toward the first occurrence", func() {
		a := record("2024-03-15", "Person A")
		a.State = "Texas"
		b := record("2024-03-15", "Person A")
		b.State = "Florida"

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b})
		Expect(merged.State).To(Equal("Texas"))
	})

	It("ignores invalid gender codes when taking the mode", func() {
		a := record("2024-03-15", "Person A")
		a.Gender = data.InvalidCode
		b := record("2024-03-15", "Person A")
		b.Gender = 1
		c := record("2024-03-15", "Person A")
		c.Gender = 1

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b, c})
		Expect(merged.Gender).To(Equal(int32(1)))
	})

	It("takes the maximum valid country code", func() {
		a := record("2024-03-15", "Person A")
		a.CountryCode = 2
		b := record("2024-03-15", "Person A")
		b.CountryCode = data.InvalidCode
		c := record("2024-03-15", "Person A")
		c.CountryCode = 5

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b, c})
		Expect(merged.CountryCode).To(Equal(int32(5)))
	})

	It("keeps the invalid code when no record has a valid one", func() {
		a := record("2024-03-15", "Person A")
		a.SourceCode = data.InvalidCode
		b := record("2024-03-15", "Person A")
		b.SourceCode = data.InvalidCode

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b})
		Expect(merged.SourceCode).To(Equal(data.InvalidCode))
	})

	It("takes the last non-empty birth date", func() {
		a := record("2024-03-15", "Person A")
		a.BirthDate = "1950-01-01"
		b := record("2024-03-15", "Person A")
		b.BirthDate = "1950-06-15"
		c := record("2024-03-15", "Person A")

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b, c})
		Expect(merged.BirthDate).To(Equal("1950-06-15"))
	})

	It("unions list fields preserving first-occurrence order", func() {
		a := record("2024-03-15", "Person A")
		a.IndustryCodes = []int32{1, 2}
		b := record("2024-03-15", "Person A")
		b.IndustryCodes = []int32{2, 3}

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b})
		Expect(merged.IndustryCodes).To(Equal([]int32{1, 2, 3}))
	})

	It("makes list union order dependent on record order", func() {
		a := record("2024-03-15", "Person A")
		a.IndustryCodes = []int32{2, 3}
		b := record("2024-03-15", "Person A")
		b.IndustryCodes = []int32{1, 2}

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b})
		Expect(merged.IndustryCodes).To(Equal([]int32{2, 3, 1}))
	})

	It("unions ticker lists", func() {
		a := record("2024-03-15", "Person A")
		a.AssetTickers = []string{"AAA", "BBB"}
		b := record("2024-03-15", "Person A")
		b.AssetTickers = []string{"BBB", "CCC"}

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b})
		Expect(merged.AssetTickers).To(Equal([]string{"AAA", "BBB", "CCC"}))
	})

	It("takes the first non-null inflation annotation", func() {
		a := record("2024-03-15", "Person A")
		b := record("2024-03-15", "Person A")
		b.CPIU = worth(310.3)
		b.PCE = worth(123.4)

		merged := reconcile.MergeGroup([]*data.BillionaireRecord{a, b})
		Expect(merged.CPIU).To(HaveValue(Equal(310.3)))
		Expect(merged.PCE).To(HaveValue(Equal(123.4)))
	})
})
