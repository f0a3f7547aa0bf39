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

// Package encode transforms raw feed rows into columnar records. Upstream
// data is untrusted: encoding never fails, it produces best-effort output
// with invalid or default markers instead.
package encode

import (
	"strings"
	"time"

	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/dictionary"
	"github.com/redflagprofits/rfdata/parse"
)

// assetNumericFields maps feed keys of the financial-assets elements to
// their columns and conversion defaults. An exchange rate that is missing
// or zero defaults to 1.0 so share valuations stay usable.
var assetNumericFields = []struct {
	key    string
	def    float64
	column func(*data.BillionaireRecord) *[]float64
}{
	{"numberOfShares", 0.0, func(rec *data.BillionaireRecord) *[]float64 { return &rec.AssetShares }},
	{"sharePrice", 0.0, func(rec *data.BillionaireRecord) *[]float64 { return &rec.AssetPrices }},
	{"exchangeRate", 1.0, func(rec *data.BillionaireRecord) *[]float64 { return &rec.AssetExchangeRates }},
}

// wealthFields maps the four wealth measures to their columns.
var wealthFields = []struct {
	key    string
	column func(*data.BillionaireRecord) **float64
}{
	{"finalWorth", func(rec *data.BillionaireRecord) **float64 { return &rec.FinalWorth }},
	{"estWorthPrev", func(rec *data.BillionaireRecord) **float64 { return &rec.EstWorthPrev }},
	{"privateAssetsWorth", func(rec *data.BillionaireRecord) **float64 { return &rec.PrivateAssetsWorth }},
	{"archivedWorth", func(rec *data.BillionaireRecord) **float64 { return &rec.ArchivedWorth }},
}

// fallbackYear, fallbackMonth and fallbackDay are used when the crawl date
// cannot be parsed. The record is retained with an empty date key; the
// derived components degrade to the epoch triple.
const (
	fallbackYear  = 1970
	fallbackMonth = 1
	fallbackDay   = 1
)

type Encoder struct {
	dicts *dictionary.Table
}

func New(dicts *dictionary.Table) *Encoder {
	return &Encoder{dicts: dicts}
}

// Record encodes one raw feed row into a columnar record. crawlDate is the
// observation date of the whole batch in YYYY-MM-DD form; an empty or
// unparseable date leaves the record in the empty-date bucket rather than
// dropping it.
func (enc *Encoder) Record(raw map[string]any, crawlDate string) *data.BillionaireRecord {
	rec := &data.BillionaireRecord{
		PersonName:  parse.String(raw["personName"]),
		State:       parse.String(raw["state"]),
		City:        parse.String(raw["city"]),
		Gender:      encodeGender(raw["gender"]),
		BirthDate:   encodeBirthDate(raw["birthDate"]),
		CountryCode: enc.dicts.Encode("countries", raw["countryOfCitizenship"]),
		SourceCode:  enc.dicts.Encode("sources", raw["source"]),
	}

	for _, field := range wealthFields {
		*field.column(rec) = parse.FloatPtr(raw[field.key])
	}

	enc.encodeIndustries(rec, raw["industries"])
	enc.encodeAssets(rec, raw["financialAssets"])
	enc.encodeDate(rec, crawlDate)

	return rec
}

func encodeGender(raw any) int32 {
	if parse.Invalid(raw) {
		return data.InvalidCode
	}

	if code, ok := data.GenderCodes[strings.ToUpper(parse.String(raw))]; ok {
		return code
	}

	return data.InvalidCode
}

// encodeBirthDate converts the feed's millisecond timestamp to a date
// string. Anything unparseable becomes the empty string (a parquet-friendly
// null).
func encodeBirthDate(raw any) string {
	if parse.Invalid(raw) {
		return ""
	}

	switch v := raw.(type) {
	case float64:
		return time.UnixMilli(int64(v)).UTC().Format("2006-01-02")
	case string:
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			return parsed.Format("2006-01-02")
		}
	}

	return ""
}

func (enc *Encoder) encodeIndustries(rec *data.BillionaireRecord, raw any) {
	industries := parse.List(raw)
	rec.IndustryCodes = make([]int32, 0, len(industries))

	for _, industry := range industries {
		rec.IndustryCodes = append(rec.IndustryCodes, enc.dicts.Encode("industries", industry))
	}
}

// encodeAssets fills the parallel asset arrays. Elements that are not
// mapping-like are skipped; all arrays stay the same length.
func (enc *Encoder) encodeAssets(rec *data.BillionaireRecord, raw any) {
	assets := parse.List(raw)

	rec.AssetExchanges = make([]int32, 0, len(assets))
	rec.AssetTickers = make([]string, 0, len(assets))
	rec.AssetCompanies = make([]int32, 0, len(assets))
	rec.AssetCurrencies = make([]int32, 0, len(assets))
	rec.AssetShares = make([]float64, 0, len(assets))
	rec.AssetPrices = make([]float64, 0, len(assets))
	rec.AssetExchangeRates = make([]float64, 0, len(assets))

	for _, element := range assets {
		asset, ok := element.(map[string]any)
		if !ok {
			continue
		}

		rec.AssetExchanges = append(rec.AssetExchanges, enc.dicts.Encode("exchanges", asset["exchange"]))
		rec.AssetCompanies = append(rec.AssetCompanies, enc.dicts.Encode("companies", asset["companyName"]))
		rec.AssetCurrencies = append(rec.AssetCurrencies, enc.dicts.Encode("currencies", asset["currencyCode"]))
		rec.AssetTickers = append(rec.AssetTickers, parse.String(asset["ticker"]))

		for _, field := range assetNumericFields {
			column := field.column(rec)
			*column = append(*column, parse.Float(asset[field.key], field.def))
		}
	}
}

func (enc *Encoder) encodeDate(rec *data.BillionaireRecord, crawlDate string) {
	parsed, err := time.Parse("2006-01-02", crawlDate)
	if err != nil {
		rec.CrawlDate = ""
		rec.Year = fallbackYear
		rec.Month = fallbackMonth
		rec.Day = fallbackDay
		return
	}

	rec.CrawlDate = parsed.Format("2006-01-02")
	rec.Year = int32(parsed.Year())
	rec.Month = int32(parsed.Month())
	rec.Day = int32(parsed.Day())
}
