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
package encode_test

import (
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/dictionary"
	"github.com/redflagprofits/rfdata/encode"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Encoder", func() {
	var (
		dicts *dictionary.Table
		enc   *encode.Encoder
	)

	BeforeEach(func() {
		dicts = dictionary.Load(GinkgoT().TempDir())
		enc = encode.New(dicts)
	})

	It("encodes a complete feed row", func() {
		raw := map[string]any{
			"personName":           "Test Person",
			"gender":               "F",
			"birthDate":            86400000.0,
			"state":                "California",
			"city":                 "Palo Alto",
			"countryOfCitizenship": "United States",
			"source":               "software",
			"finalWorth":           3300.0,
			"estWorthPrev":         3200.0,
			"industries":           "['Technology', 'Media']",
			"financialAssets": []any{
				map[string]any{
					"exchange":       "NASDAQ",
					"ticker":         "TST",
					"companyName":    "Test Co",
					"currencyCode":   "USD",
					"numberOfShares": 100.0,
					"sharePrice":     10.0,
					"exchangeRate":   0.0,
				},
			},
		}

		rec := enc.Record(raw, "2024-03-15")

		Expect(rec.PersonName).To(Equal("Test Person"))
		Expect(rec.Gender).To(Equal(data.GenderCodes["F"]))
		Expect(rec.BirthDate).To(Equal("1970-01-02"))
		Expect(rec.State).To(Equal("California"))
		Expect(rec.City).To(Equal("Palo Alto"))

		Expect(rec.FinalWorth).To(HaveValue(Equal(3300.0)))
		Expect(rec.EstWorthPrev).To(HaveValue(Equal(3200.0)))
		Expect(rec.PrivateAssetsWorth).To(BeNil())
		Expect(rec.ArchivedWorth).To(BeNil())

		Expect(rec.IndustryCodes).To(Equal([]int32{0, 1}))
		decoded, _ := dicts.Decode("industries", 0)
		Expect(decoded).To(Equal("Technology"))

		Expect(rec.AssetTickers).To(Equal([]string{"TST"}))
		Expect(rec.AssetShares).To(Equal([]float64{100.0}))
		Expect(rec.AssetPrices).To(Equal([]float64{10.0}))
		Expect(rec.AssetExchangeRates).To(Equal([]float64{1.0}))
		Expect(rec.AssetExchanges).To(Equal([]int32{0}))
		Expect(rec.AssetCompanies).To(Equal([]int32{0}))
		Expect(rec.AssetCurrencies).To(Equal([]int32{0}))

		Expect(rec.CrawlDate).To(Equal("2024-03-15"))
		Expect(rec.Year).To(Equal(int32(2024)))
		Expect(rec.Month).To(Equal(int32(3)))
		Expect(rec.Day).To(Equal(int32(15)))
	})

	It("never drops a row, however empty", func() {
		rec := enc.Record(map[string]any{}, "2024-03-15")

		Expect(rec.PersonName).To(Equal(""))
		Expect(rec.Gender).To(Equal(data.InvalidCode))
		Expect(rec.CountryCode).To(Equal(data.InvalidCode))
		Expect(rec.SourceCode).To(Equal(data.InvalidCode))
		Expect(rec.FinalWorth).To(BeNil())
		Expect(rec.IndustryCodes).To(BeEmpty())
		Expect(rec.AssetTickers).To(BeEmpty())
	})

	It("keeps invalid codes inside industry lists", func() {
		rec := enc.Record(map[string]any{
			"industries": []any{"Technology", nil, "Media"},
		}, "2024-03-15")

		Expect(rec.IndustryCodes).To(Equal([]int32{0, data.InvalidCode, 1}))
	})

	It("skips asset elements that are not mappings", func() {
		rec := enc.Record(map[string]any{
			"financialAssets": []any{
				"not an asset",
				map[string]any{"ticker": "TST"},
			},
		}, "2024-03-15")

		Expect(rec.AssetTickers).To(Equal([]string{"TST"}))
		Expect(rec.AssetShares).To(Equal([]float64{0.0}))
		Expect(rec.AssetExchangeRates).To(Equal([]float64{1.0}))
	})

	It("ignores unknown gender markers", func() {
		rec := enc.Record(map[string]any{"gender": "X"}, "2024-03-15")
		Expect(rec.Gender).To(Equal(data.InvalidCode))
	})

	It("accepts lowercase gender markers", func() {
		rec := enc.Record(map[string]any{"gender": "m"}, "2024-03-15")
		Expect(rec.Gender).To(Equal(data.GenderCodes["M"]))
	})

	It("buckets unparseable crawl dates under the empty date", func() {
		rec := enc.Record(map[string]any{"personName": "Test Person"}, "not-a-date")

		Expect(rec.CrawlDate).To(Equal(""))
		Expect(rec.Year).To(Equal(int32(1970)))
		Expect(rec.Month).To(Equal(int32(1)))
		Expect(rec.Day).To(Equal(int32(1)))
	})

	It("reuses dictionary codes across rows", func() {
		first := enc.Record(map[string]any{"countryOfCitizenship": "France"}, "2024-03-15")
		second := enc.Record(map[string]any{"countryOfCitizenship": "France"}, "2024-03-16")

		Expect(second.CountryCode).To(Equal(first.CountryCode))
		Expect(dicts.Len("countries")).To(Equal(1))
	})
})
