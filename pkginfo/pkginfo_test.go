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
package pkginfo_test

import (
	"runtime"
	"sort"

	"github.com/redflagprofits/rfdata/pkginfo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildVersionString", func() {
	It("reports the binary name, platform and go version", func() {
		report := pkginfo.BuildVersionString()

		Expect(report).To(HavePrefix("rfdata "))
		Expect(report).To(ContainSubstring(runtime.GOOS + "/" + runtime.GOARCH))
		Expect(report).To(ContainSubstring(runtime.Version()))
	})

	It("falls back to unknown for unstamped fields", func() {
		origVersion := pkginfo.Version
		pkginfo.Version = ""
		defer func() { pkginfo.Version = origVersion }()

		Expect(pkginfo.BuildVersionString()).To(HavePrefix("rfdata unknown "))
	})

	It("uses the stamped version when present", func() {
		origVersion := pkginfo.Version
		pkginfo.Version = "1.2.3"
		defer func() { pkginfo.Version = origVersion }()

		Expect(pkginfo.BuildVersionString()).To(HavePrefix("rfdata 1.2.3 "))
	})
})

var _ = Describe("GetDependencyList", func() {
	It("returns a sorted module list", func() {
		deps := pkginfo.GetDependencyList()
		Expect(sort.StringsAreSorted(deps)).To(BeTrue())
	})
})
