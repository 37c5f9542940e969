/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version holds the application version. Version and Commit are
// overridable at link time:
//
//	go build -ldflags "-X posterforge/internal/version.Version=1.2.0 -X posterforge/internal/version.Commit=abc123"
package version

var (
	Version = "0.1.0-dev"
	Commit  = ""
)

// String returns the human-readable version, including the commit when set.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + "+" + Commit
}
