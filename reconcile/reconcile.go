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

// Package reconcile merges duplicate records that share a (crawl date,
// person) key. Duplicates come from archival re-crawls and from overlapping
// ingestion batches. Merge policies are per field class:
//
//   - wealth values take the maximum non-null across the group (more
//     complete crawls report higher-confidence values; missing data never
//     wins over present data)
//   - categorical strings take the most frequent non-empty value, ties
//     broken by first occurrence
//   - encoded categorical codes take the maximum valid code
//   - birth dates take the last non-empty value in record order
//   - list fields take the union with first-occurrence order preserved
//   - inflation annotations take the first non-null value
//   - anything else keeps the first record's value
package reconcile

import (
	"github.com/redflagprofits/rfdata/data"
)

// Dedupe merges every group of records sharing a key, preserving the order
// in which keys first appear. Groups of one pass through untouched.
func Dedupe(records []*data.BillionaireRecord) []*data.BillionaireRecord {
	groups := map[string][]*data.BillionaireRecord{}
	order := make([]string, 0, len(records))

	for _, rec := range records {
		key := rec.Key()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	merged := make([]*data.BillionaireRecord, 0, len(order))
	for _, key := range order {
		merged = append(merged, MergeGroup(groups[key]))
	}

	return merged
}

// MergeGroup collapses all records for one key into a single record using
// the per-field policies. A single-record group is returned unchanged.
func MergeGroup(group []*data.BillionaireRecord) *data.BillionaireRecord {
	if len(group) == 1 {
		return group[0]
	}

	// first record is the base; policies override field by field
	merged := *group[0]

	merged.FinalWorth = maxWorth(group, func(rec *data.BillionaireRecord) *float64 { return rec.FinalWorth })
	merged.EstWorthPrev = maxWorth(group, func(rec *data.BillionaireRecord) *float64 { return rec.EstWorthPrev })
	merged.PrivateAssetsWorth = maxWorth(group, func(rec *data.BillionaireRecord) *float64 { return rec.PrivateAssetsWorth })
	merged.ArchivedWorth = maxWorth(group, func(rec *data.BillionaireRecord) *float64 { return rec.ArchivedWorth })

	merged.State = modeString(group, func(rec *data.BillionaireRecord) string { return rec.State })
	merged.City = modeString(group, func(rec *data.BillionaireRecord) string { return rec.City })
	merged.Gender = modeCode(group, func(rec *data.BillionaireRecord) int32 { return rec.Gender })

	merged.CountryCode = maxCode(group, func(rec *data.BillionaireRecord) int32 { return rec.CountryCode })
	merged.SourceCode = maxCode(group, func(rec *data.BillionaireRecord) int32 { return rec.SourceCode })

	merged.BirthDate = lastNonEmpty(group, func(rec *data.BillionaireRecord) string { return rec.BirthDate })

	merged.IndustryCodes = union(collect(group, func(rec *data.BillionaireRecord) []int32 { return rec.IndustryCodes }))
	merged.AssetExchanges = union(collect(group, func(rec *data.BillionaireRecord) []int32 { return rec.AssetExchanges }))
	merged.AssetTickers = union(collect(group, func(rec *data.BillionaireRecord) []string { return rec.AssetTickers }))
	merged.AssetCompanies = union(collect(group, func(rec *data.BillionaireRecord) []int32 { return rec.AssetCompanies }))
	merged.AssetShares = union(collect(group, func(rec *data.BillionaireRecord) []float64 { return rec.AssetShares }))
	merged.AssetPrices = union(collect(group, func(rec *data.BillionaireRecord) []float64 { return rec.AssetPrices }))
	merged.AssetCurrencies = union(collect(group, func(rec *data.BillionaireRecord) []int32 { return rec.AssetCurrencies }))
	merged.AssetExchangeRates = union(collect(group, func(rec *data.BillionaireRecord) []float64 { return rec.AssetExchangeRates }))

	merged.CPIU = firstNonNil(group, func(rec *data.BillionaireRecord) *float64 { return rec.CPIU })
	merged.PCE = firstNonNil(group, func(rec *data.BillionaireRecord) *float64 { return rec.PCE })

	return &merged
}

func maxWorth(group []*data.BillionaireRecord, field func(*data.BillionaireRecord) *float64) *float64 {
	var best *float64
	for _, rec := range group {
		value := field(rec)
		if value == nil {
			continue
		}
		if best == nil || *value > *best {
			v := *value
			best = &v
		}
	}
	return best
}

// modeString returns the most frequent non-empty value; ties go to the
// value encountered first. All-empty groups stay empty.
func modeString(group []*data.BillionaireRecord, field func(*data.BillionaireRecord) string) string {
	counts := map[string]int{}
	order := []string{}

	for _, rec := range group {
		value := field(rec)
		if value == "" {
			continue
		}
		if counts[value] == 0 {
			order = append(order, value)
		}
		counts[value]++
	}

	best := ""
	bestCount := 0
	for _, value := range order {
		if counts[value] > bestCount {
			best = value
			bestCount = counts[value]
		}
	}

	return best
}

// modeCode is modeString over encoded values; InvalidCode counts as empty.
func modeCode(group []*data.BillionaireRecord, field func(*data.BillionaireRecord) int32) int32 {
	counts := map[int32]int{}
	order := []int32{}

	for _, rec := range group {
		code := field(rec)
		if code == data.InvalidCode {
			continue
		}
		if counts[code] == 0 {
			order = append(order, code)
		}
		counts[code]++
	}

	best := data.InvalidCode
	bestCount := 0
	for _, code := range order {
		if counts[code] > bestCount {
			best = code
			bestCount = counts[code]
		}
	}

	return best
}

// maxCode returns the maximum valid code; if no record has a valid code the
// first record's value is kept.
func maxCode(group []*data.BillionaireRecord, field func(*data.BillionaireRecord) int32) int32 {
	best := data.InvalidCode
	for _, rec := range group {
		if code := field(rec); code != data.InvalidCode && code > best {
			best = code
		}
	}

	if best == data.InvalidCode {
		return field(group[0])
	}

	return best
}

func lastNonEmpty(group []*data.BillionaireRecord, field func(*data.BillionaireRecord) string) string {
	result := ""
	for _, rec := range group {
		if value := field(rec); value != "" {
			result = value
		}
	}
	return result
}

func firstNonNil(group []*data.BillionaireRecord, field func(*data.BillionaireRecord) *float64) *float64 {
	for _, rec := range group {
		if value := field(rec); value != nil {
			return value
		}
	}
	return nil
}

func collect[T comparable](group []*data.BillionaireRecord, field func(*data.BillionaireRecord) []T) [][]T {
	lists := make([][]T, 0, len(group))
	for _, rec := range group {
		lists = append(lists, field(rec))
	}
	return lists
}

// union concatenates lists removing duplicates, keeping first-occurrence
// order. The result is never sorted.
func union[T comparable](lists [][]T) []T {
	seen := map[T]bool{}
	result := []T{}

	for _, list := range lists {
		for _, value := range list {
			if seen[value] {
				continue
			}
			seen[value] = true
			result = append(result, value)
		}
	}

	return result
}
