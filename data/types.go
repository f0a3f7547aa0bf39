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

import "fmt"

// InvalidCode marks a categorical value that is missing or could not be
// mapped. Dictionary codes start at 0 so -1 never collides with a real code.
const InvalidCode int32 = -1

// GenderCodes is the fixed encoding for the gender column. Values other
// than M/F encode as InvalidCode.
var GenderCodes = map[string]int32{
	"M": 0,
	"F": 1,
}

// BillionaireRecord is one row of the dataset: a single tracked person's
// reported state as of one crawl date. Column names match the parquet file
// consumed by the chart and site generators and must not change.
//
// The asset_* columns are parallel arrays; index i across all of them
// describes one financial asset holding.
type BillionaireRecord struct {
	PersonName string `json:"personName" parquet:"name=personName, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	CrawlDate  string `json:"crawl_date" parquet:"name=crawl_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`

	FinalWorth         *float64 `json:"finalWorth" parquet:"name=finalWorth, type=DOUBLE, repetitiontype=OPTIONAL"`
	EstWorthPrev       *float64 `json:"estWorthPrev" parquet:"name=estWorthPrev, type=DOUBLE, repetitiontype=OPTIONAL"`
	PrivateAssetsWorth *float64 `json:"privateAssetsWorth" parquet:"name=privateAssetsWorth, type=DOUBLE, repetitiontype=OPTIONAL"`
	ArchivedWorth      *float64 `json:"archivedWorth" parquet:"name=archivedWorth, type=DOUBLE, repetitiontype=OPTIONAL"`

	Gender    int32  `json:"gender" parquet:"name=gender, type=INT32"`
	BirthDate string `json:"birthDate" parquet:"name=birthDate, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	State     string `json:"state" parquet:"name=state, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	City      string `json:"city" parquet:"name=city, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`

	CountryCode int32 `json:"country_code" parquet:"name=country_code, type=INT32"`
	SourceCode  int32 `json:"source_code" parquet:"name=source_code, type=INT32"`

	IndustryCodes []int32 `json:"industry_codes" parquet:"name=industry_codes, type=MAP, convertedtype=LIST, valuetype=INT32"`

	AssetExchanges     []int32   `json:"asset_exchanges" parquet:"name=asset_exchanges, type=MAP, convertedtype=LIST, valuetype=INT32"`
	AssetTickers       []string  `json:"asset_tickers" parquet:"name=asset_tickers, type=MAP, convertedtype=LIST, valuetype=BYTE_ARRAY, valueconvertedtype=UTF8"`
	AssetCompanies     []int32   `json:"asset_companies" parquet:"name=asset_companies, type=MAP, convertedtype=LIST, valuetype=INT32"`
	AssetShares        []float64 `json:"asset_shares" parquet:"name=asset_shares, type=MAP, convertedtype=LIST, valuetype=DOUBLE"`
	AssetPrices        []float64 `json:"asset_prices" parquet:"name=asset_prices, type=MAP, convertedtype=LIST, valuetype=DOUBLE"`
	AssetCurrencies    []int32   `json:"asset_currencies" parquet:"name=asset_currencies, type=MAP, convertedtype=LIST, valuetype=INT32"`
	AssetExchangeRates []float64 `json:"asset_exchange_rates" parquet:"name=asset_exchange_rates, type=MAP, convertedtype=LIST, valuetype=DOUBLE"`

	Year  int32 `json:"year" parquet:"name=year, type=INT32"`
	Month int32 `json:"month" parquet:"name=month, type=INT32"`
	Day   int32 `json:"day" parquet:"name=day, type=INT32"`

	CPIU *float64 `json:"cpi_u" parquet:"name=cpi_u, type=DOUBLE, repetitiontype=OPTIONAL"`
	PCE  *float64 `json:"pce" parquet:"name=pce, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// Key returns the deduplication key. Records with an unparseable crawl date
// share the empty-date bucket rather than being dropped.
func (rec *BillionaireRecord) Key() string {
	return fmt.Sprintf("%s|%s", rec.CrawlDate, rec.PersonName)
}
