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
package dataset

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/dictionary"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the dataset in markdown.
func (store *Store) Summary(dicts *dictionary.Table) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString("# Billionaire wealth dataset\n\n")
	builder.WriteString(fmt.Sprintf("File: %s\n\n", store.Filename))

	if !store.Exists() {
		builder.WriteString("No dataset has been written yet. Run `rfdata update` to create one.\n")
		return builder.String(), nil
	}

	records, err := store.ReadAll()
	if err != nil {
		return "", err
	}

	dates := map[string]bool{}
	people := map[string]bool{}
	for _, rec := range records {
		dates[rec.CrawlDate] = true
		people[rec.PersonName] = true
	}

	sortedDates := make([]string, 0, len(dates))
	for date := range dates {
		sortedDates = append(sortedDates, date)
	}
	sort.Strings(sortedDates)

	builder.WriteString("## Details\n\n")
	builder.WriteString(p.Sprintf("  * Total Records: %d\n", len(records)))
	builder.WriteString(p.Sprintf("  * Unique Dates: %d\n", len(dates)))
	builder.WriteString(p.Sprintf("  * People Tracked: %d\n", len(people)))

	if len(sortedDates) > 0 {
		builder.WriteString(fmt.Sprintf("  * Date Range: %s to %s\n", sortedDates[0], sortedDates[len(sortedDates)-1]))
	}

	if info, err := os.Stat(store.Filename); err == nil {
		builder.WriteString(p.Sprintf("  * File Size: %.2f MB\n", float64(info.Size())/(1024*1024)))
		age := timeago.English.Format(info.ModTime())
		builder.WriteString(fmt.Sprintf("  * Last Updated: %s (%s)\n", age, info.ModTime().Local().Format("01/02/2006")))
	}

	builder.WriteString("\n## Dictionaries\n\n")
	for _, domain := range dictionary.Domains {
		builder.WriteString(p.Sprintf("  * %s: %d entries\n", domain, dicts.Len(domain)))
	}

	coverage := inflationCoverage(records)
	builder.WriteString("\n## Inflation coverage\n\n")
	builder.WriteString(p.Sprintf("  * CPI-U: %.1f%%\n", coverage[0]))
	builder.WriteString(p.Sprintf("  * PCE: %.1f%%\n", coverage[1]))

	return builder.String(), nil
}

func inflationCoverage(records []*data.BillionaireRecord) [2]float64 {
	if len(records) == 0 {
		return [2]float64{0, 0}
	}

	var cpi, pce int
	for _, rec := range records {
		if rec.CPIU != nil {
			cpi++
		}
		if rec.PCE != nil {
			pce++
		}
	}

	total := float64(len(records))
	return [2]float64{float64(cpi) / total * 100, float64(pce) / total * 100}
}
