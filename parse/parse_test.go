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
package parse_test

import (
	"math"

	"github.com/redflagprofits/rfdata/parse"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("List", func() {
	It("passes parsed lists through unchanged", func() {
		raw := []any{"a", "b"}
		Expect(parse.List(raw)).To(Equal([]any{"a", "b"}))
	})

	It("evaluates python list literals", func() {
		Expect(parse.List("['Technology', 'Media']")).To(Equal([]any{"Technology", "Media"}))
	})

	It("evaluates python dict literals inside lists", func() {
		result := parse.List("[{'exchange': 'NASDAQ', 'numberOfShares': 100.0}]")
		Expect(result).To(HaveLen(1))
		Expect(result[0]).To(Equal(map[string]any{
			"exchange":       "NASDAQ",
			"numberOfShares": 100.0,
		}))
	})

	It("evaluates python keywords and escapes", func() {
		result := parse.List("[True, False, None, 'it\\'s']")
		Expect(result).To(Equal([]any{true, false, nil, "it's"}))
	})

	It("tolerates trailing commas", func() {
		Expect(parse.List("['a', 'b',]")).To(Equal([]any{"a", "b"}))
	})

	It("falls back to json when the literal parser fails", func() {
		Expect(parse.List(`["a", "b"]`)).To(Equal([]any{"a", "b"}))
	})

	It("wraps non-list json values", func() {
		Expect(parse.List(`{"ticker": "TST"}`)).To(Equal([]any{map[string]any{"ticker": "TST"}}))
	})

	It("wraps unparseable strings as single elements", func() {
		Expect(parse.List("just a plain value")).To(Equal([]any{"just a plain value"}))
	})

	It("wraps scalars as single elements", func() {
		Expect(parse.List(42.0)).To(Equal([]any{42.0}))
	})

	It("converts missing values to empty lists", func() {
		Expect(parse.List(nil)).To(BeEmpty())
		Expect(parse.List("")).To(BeEmpty())
		Expect(parse.List("nan")).To(BeEmpty())
		Expect(parse.List("None")).To(BeEmpty())
		Expect(parse.List(math.NaN())).To(BeEmpty())
	})
})

var _ = Describe("Invalid", func() {
	It("treats nil, NaN and empty-ish strings as missing", func() {
		Expect(parse.Invalid(nil)).To(BeTrue())
		Expect(parse.Invalid("")).To(BeTrue())
		Expect(parse.Invalid("  ")).To(BeTrue())
		Expect(parse.Invalid("nan")).To(BeTrue())
		Expect(parse.Invalid("None")).To(BeTrue())
		Expect(parse.Invalid(math.NaN())).To(BeTrue())
		Expect(parse.Invalid(float32(math.NaN()))).To(BeTrue())
	})

	It("keeps real values", func() {
		Expect(parse.Invalid("NASDAQ")).To(BeFalse())
		Expect(parse.Invalid(0.0)).To(BeFalse())
		Expect(parse.Invalid(false)).To(BeFalse())
	})
})

var _ = Describe("String", func() {
	It("renders whole-number floats without a decimal point", func() {
		Expect(parse.String(123.0)).To(Equal("123"))
	})

	It("keeps fractional digits", func() {
		Expect(parse.String(1.5)).To(Equal("1.5"))
	})

	It("passes strings through", func() {
		Expect(parse.String("Technology")).To(Equal("Technology"))
	})

	It("renders nil as the empty string", func() {
		Expect(parse.String(nil)).To(Equal(""))
	})
})

var _ = Describe("Float", func() {
	It("substitutes the default for missing values", func() {
		Expect(parse.Float(nil, 1.0)).To(Equal(1.0))
		Expect(parse.Float("nan", 1.0)).To(Equal(1.0))
	})

	It("substitutes the default for zero", func() {
		Expect(parse.Float(0.0, 1.0)).To(Equal(1.0))
	})

	It("parses numeric strings", func() {
		Expect(parse.Float("2.5", 0.0)).To(Equal(2.5))
	})

	It("substitutes the default for garbage", func() {
		Expect(parse.Float("not a number", 0.0)).To(Equal(0.0))
	})
})

var _ = Describe("FloatPtr", func() {
	It("returns nil for missing values", func() {
		Expect(parse.FloatPtr(nil)).To(BeNil())
		Expect(parse.FloatPtr(math.NaN())).To(BeNil())
		Expect(parse.FloatPtr("garbage")).To(BeNil())
	})

	It("keeps zero as a real value", func() {
		Expect(parse.FloatPtr(0.0)).To(HaveValue(Equal(0.0)))
	})

	It("converts numbers and numeric strings", func() {
		Expect(parse.FloatPtr(3300.0)).To(HaveValue(Equal(3300.0)))
		Expect(parse.FloatPtr("3300")).To(HaveValue(Equal(3300.0)))
	})
})
