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

// Package dictionary maintains the persistent string-to-code tables used to
// dictionary-encode categorical columns. Codes are assigned append-only and
// are never renumbered: they are embedded durably in the parquet dataset,
// so losing or rewriting a dictionary file makes its codes undecodable.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/parse"
	"github.com/rs/zerolog/log"
)

// Domains lists every categorical domain with its own persisted mapping.
var Domains = []string{
	"exchanges",
	"currencies",
	"industries",
	"companies",
	"countries",
	"sources",
}

// Table holds the in-memory mapping for every domain. The encoding pipeline
// owns exactly one Table per process: loaded at start, mutated freely under
// the single-writer assumption, and flushed once at the end of a run.
type Table struct {
	dir     string
	domains map[string]map[string]int32
	reverse map[string]map[int32]string
}

// Load reads the persisted mapping for every domain from dir. A missing or
// corrupt file degrades to an empty mapping with a warning; Load never
// fails.
func Load(dir string) *Table {
	table := &Table{
		dir:     dir,
		domains: make(map[string]map[string]int32, len(Domains)),
		reverse: make(map[string]map[int32]string, len(Domains)),
	}

	for _, domain := range Domains {
		table.domains[domain] = loadDomain(dir, domain)
	}

	return table
}

func loadDomain(dir, domain string) map[string]int32 {
	mapping := map[string]int32{}

	raw, err := os.ReadFile(filepath.Join(dir, domain+".json"))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("Domain", domain).Msg("could not read dictionary file, starting empty")
		}
		return mapping
	}

	if err := json.Unmarshal(raw, &mapping); err != nil {
		log.Warn().Err(err).Str("Domain", domain).Msg("dictionary file is corrupt, starting empty")
		return map[string]int32{}
	}

	return mapping
}

// Encode returns the code for value in the given domain, assigning the next
// code when the value has not been seen before. Missing or NaN-like values
// encode as data.InvalidCode.
func (table *Table) Encode(domain string, value any) int32 {
	if parse.Invalid(value) {
		return data.InvalidCode
	}

	key := parse.String(value)
	if key == "" || key == "nan" || key == "None" {
		return data.InvalidCode
	}

	mapping, ok := table.domains[domain]
	if !ok {
		log.Warn().Str("Domain", domain).Msg("encode requested for unknown dictionary domain")
		return data.InvalidCode
	}

	if code, ok := mapping[key]; ok {
		return code
	}

	code := int32(len(mapping))
	mapping[key] = code

	if rev, ok := table.reverse[domain]; ok {
		rev[code] = key
	}

	return code
}

// Decode returns the original string for a code. The reverse index is built
// lazily on first use per domain.
func (table *Table) Decode(domain string, code int32) (string, bool) {
	if code == data.InvalidCode {
		return "", false
	}

	rev, ok := table.reverse[domain]
	if !ok {
		mapping, exists := table.domains[domain]
		if !exists {
			return "", false
		}

		rev = make(map[int32]string, len(mapping))
		for value, c := range mapping {
			rev[c] = value
		}
		table.reverse[domain] = rev
	}

	value, ok := rev[code]
	return value, ok
}

// Len returns the number of entries in a domain's mapping.
func (table *Table) Len(domain string) int {
	return len(table.domains[domain])
}

// SaveAll serializes every domain mapping to its persisted location,
// creating parent directories as needed. A write failure is returned so the
// caller can log it, but callers are expected to continue: losing one run's
// new codes is an accepted risk, losing the run itself is not.
func (table *Table) SaveAll() error {
	if err := os.MkdirAll(table.dir, 0o755); err != nil {
		return fmt.Errorf("create dictionary dir: %w", err)
	}

	for _, domain := range Domains {
		raw, err := json.MarshalIndent(table.domains[domain], "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s dictionary: %w", domain, err)
		}

		fn := filepath.Join(table.dir, domain+".json")
		if err := os.WriteFile(fn, raw, 0o644); err != nil {
			return fmt.Errorf("write %s dictionary: %w", domain, err)
		}
	}

	return nil
}
