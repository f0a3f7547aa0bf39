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

// Package parse converts loosely-typed feed fields into canonical in-memory
// values. The feed is dirty by design: nested lists arrive either as parsed
// JSON values or as strings containing Python or JSON literals. Nothing in
// this package returns an error; every failure degrades to a best-effort
// wrapped value.
package parse

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// A ListParser attempts to interpret a raw string as a list structure.
// Parsers are tried in order; the first success wins.
type ListParser interface {
	Parse(s string) ([]any, bool)
}

var listParsers = []ListParser{literalParser{}, jsonParser{}}

// List converts a raw feed field to a list. Lists pass through unchanged,
// strings run through the parser chain, empty/NaN values become an empty
// list, and any other scalar is wrapped as a single-element list.
func List(raw any) []any {
	if Invalid(raw) {
		return []any{}
	}

	switch v := raw.(type) {
	case []any:
		return v
	case string:
		for _, parser := range listParsers {
			if parsed, ok := parser.Parse(v); ok {
				return parsed
			}
		}
		log.Debug().Str("Value", v).Msg("field is not a list literal, wrapping as single element")
		return []any{v}
	}

	return []any{raw}
}

// Invalid reports whether a raw value counts as missing: nil, NaN, or a
// string that normalizes to "", "nan" or "None".
func Invalid(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed == "" || trimmed == "nan" || trimmed == "None"
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	}

	return false
}

// String normalizes a raw value to its canonical string form. Whole-number
// floats render without a decimal point so that re-ingested values map to
// the same dictionary entry.
func String(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}

	return ""
}

// Float converts a raw value to a float64, substituting def when the value
// is missing, unconvertible, or zero. Zero falls back to the default so
// that a reported exchange rate of 0 becomes 1.0 rather than zeroing out
// valuations downstream.
func Float(raw any, def float64) float64 {
	if Invalid(raw) {
		return def
	}

	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case float32:
		value = float64(v)
	case int:
		value = float64(v)
	case int64:
		value = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		value = parsed
	default:
		return def
	}

	if value == 0 {
		return def
	}

	return value
}

// FloatPtr converts a raw value to an optional float64. Missing and
// unconvertible values map to nil, which stores as a parquet null.
func FloatPtr(raw any) *float64 {
	if Invalid(raw) {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		return &v
	case float32:
		value := float64(v)
		return &value
	case int:
		value := float64(v)
		return &value
	case int64:
		value := float64(v)
		return &value
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &parsed
	}

	return nil
}

// jsonParser interprets a string as a JSON value. Non-list JSON values are
// wrapped as single-element lists.
type jsonParser struct{}

func (jsonParser) Parse(s string) ([]any, bool) {
	var value any
	if err := json.Unmarshal([]byte(s), &value); err != nil {
		return nil, false
	}

	if list, ok := value.([]any); ok {
		return list, true
	}

	return []any{value}, true
}
