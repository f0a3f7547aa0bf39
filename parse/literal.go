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
package parse

import (
	"strconv"
	"strings"
	"unicode"
)

// literalParser evaluates Python literal syntax: single or double quoted
// strings, numbers, True/False/None, and nested lists and dicts. Feed
// fields that passed through the upstream crawler's repr() arrive in this
// form. Only literals are evaluated; there is no expression support.
type literalParser struct{}

func (literalParser) Parse(s string) ([]any, bool) {
	scan := &literalScanner{input: s}
	value, ok := scan.value()
	if !ok {
		return nil, false
	}

	scan.skipSpace()
	if !scan.done() {
		return nil, false
	}

	if list, isList := value.([]any); isList {
		return list, true
	}

	return []any{value}, true
}

type literalScanner struct {
	input string
	pos   int
}

func (scan *literalScanner) done() bool {
	return scan.pos >= len(scan.input)
}

func (scan *literalScanner) peek() byte {
	if scan.done() {
		return 0
	}
	return scan.input[scan.pos]
}

func (scan *literalScanner) skipSpace() {
	for !scan.done() && unicode.IsSpace(rune(scan.input[scan.pos])) {
		scan.pos++
	}
}

func (scan *literalScanner) value() (any, bool) {
	scan.skipSpace()
	switch c := scan.peek(); {
	case c == '[':
		return scan.list()
	case c == '{':
		return scan.dict()
	case c == '\'' || c == '"':
		return scan.quoted()
	case c == 'T' || c == 'F' || c == 'N':
		return scan.keyword()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return scan.number()
	}
	return nil, false
}

func (scan *literalScanner) list() (any, bool) {
	scan.pos++ // consume '['
	items := []any{}

	scan.skipSpace()
	if scan.peek() == ']' {
		scan.pos++
		return items, true
	}

	for {
		item, ok := scan.value()
		if !ok {
			return nil, false
		}
		items = append(items, item)

		scan.skipSpace()
		switch scan.peek() {
		case ',':
			scan.pos++
			scan.skipSpace()
			// trailing comma is legal python
			if scan.peek() == ']' {
				scan.pos++
				return items, true
			}
		case ']':
			scan.pos++
			return items, true
		default:
			return nil, false
		}
	}
}

func (scan *literalScanner) dict() (any, bool) {
	scan.pos++ // consume '{'
	entries := map[string]any{}

	scan.skipSpace()
	if scan.peek() == '}' {
		scan.pos++
		return entries, true
	}

	for {
		scan.skipSpace()
		if scan.peek() != '\'' && scan.peek() != '"' {
			return nil, false
		}

		key, ok := scan.quoted()
		if !ok {
			return nil, false
		}

		scan.skipSpace()
		if scan.peek() != ':' {
			return nil, false
		}
		scan.pos++

		value, ok := scan.value()
		if !ok {
			return nil, false
		}
		entries[key.(string)] = value

		scan.skipSpace()
		switch scan.peek() {
		case ',':
			scan.pos++
			scan.skipSpace()
			if scan.peek() == '}' {
				scan.pos++
				return entries, true
			}
		case '}':
			scan.pos++
			return entries, true
		default:
			return nil, false
		}
	}
}

func (scan *literalScanner) quoted() (any, bool) {
	quote := scan.input[scan.pos]
	scan.pos++

	var builder strings.Builder
	for !scan.done() {
		c := scan.input[scan.pos]
		scan.pos++

		switch c {
		case quote:
			return builder.String(), true
		case '\\':
			if scan.done() {
				return nil, false
			}
			esc := scan.input[scan.pos]
			scan.pos++
			switch esc {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case 'r':
				builder.WriteByte('\r')
			default:
				builder.WriteByte(esc)
			}
		default:
			builder.WriteByte(c)
		}
	}

	return nil, false // unterminated string
}

func (scan *literalScanner) keyword() (any, bool) {
	for _, kw := range []struct {
		word  string
		value any
	}{
		{"True", true},
		{"False", false},
		{"None", nil},
	} {
		if strings.HasPrefix(scan.input[scan.pos:], kw.word) {
			scan.pos += len(kw.word)
			return kw.value, true
		}
	}
	return nil, false
}

func (scan *literalScanner) number() (any, bool) {
	start := scan.pos
	for !scan.done() {
		c := scan.input[scan.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			scan.pos++
			continue
		}
		break
	}

	value, err := strconv.ParseFloat(scan.input[start:scan.pos], 64)
	if err != nil {
		return nil, false
	}

	return value, true
}
