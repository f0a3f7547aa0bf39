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

// Package pkginfo exposes build metadata stamped in at link time.
package pkginfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Set via -ldflags "-X github.com/redflagprofits/rfdata/pkginfo.Version=..."
var (
	BuildDate  string
	CommitHash string
	Version    string
)

// BuildVersionString returns the multi-line version report printed by the
// version sub-command.
func BuildVersionString() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "rfdata %s (%s/%s)\n", orUnknown(Version), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&sb, "  commit:     %s\n", orUnknown(CommitHash))
	fmt.Fprintf(&sb, "  build date: %s\n", orUnknown(BuildDate))
	fmt.Fprintf(&sb, "  go version: %s", runtime.Version())

	return sb.String()
}

func orUnknown(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}

// GetDependencyList returns the modules linked into this binary, sorted,
// each formatted as `path="version"`.
func GetDependencyList() []string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		log.Error().Msg("could not get package build info")
		return nil
	}

	deps := make([]string, 0, len(buildInfo.Deps))
	for _, dep := range buildInfo.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}

	sort.Strings(deps)

	return deps
}
