/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Dimension strings encode "<float><px|%>". A missing unit means px.
// Percentages resolve against a caller-supplied reference size: parent
// width for horizontal values, parent height for vertical ones.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var dimensionRe = regexp.MustCompile(`^(-?[0-9]+(?:\.[0-9]+)?)(px|%)?$`)

// ParseDimension resolves a dimension string to pixels. It fails safe:
// empty, malformed or non-finite input yields 0, never an error.
func ParseDimension(value string, referenceSize float64) float64 {
	m := dimensionRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	if m[2] == "%" {
		return n / 100 * referenceSize
	}
	return n
}

// IsPercent reports whether the dimension string carries a % unit.
func IsPercent(value string) bool {
	return strings.HasSuffix(strings.TrimSpace(value), "%")
}

// FormatPx renders a pixel value as a dimension string.
func FormatPx(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64) + "px"
}

// FormatPercent renders a percentage value as a dimension string.
// The argument is the percentage itself, not the resolved pixel value.
func FormatPercent(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64) + "%"
}
