/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"math"
	"testing"
)

func TestParseDimension(t *testing.T) {
	cases := []struct {
		in   string
		ref  float64
		want float64
	}{
		{"10px", 500, 10},
		{"10", 500, 10},          // missing unit defaults to px
		{"-12.5px", 500, -12.5},
		{"50%", 400, 200},
		{"-10%", 200, -20},
		{"0%", 123, 0},
		{" 25px ", 500, 25}, // surrounding whitespace tolerated
		{"", 500, 0},
		{"abc", 500, 0},
		{"10em", 500, 0}, // unknown unit is malformed, not px
		{"px", 500, 0},
		{"10 px", 500, 0},
		{"--5px", 500, 0},
	}
	for _, c := range cases {
		if got := ParseDimension(c.in, c.ref); got != c.want {
			t.Fatalf("ParseDimension(%q, %v) = %v, want %v", c.in, c.ref, got, c.want)
		}
	}
}

func TestParseDimensionRoundTrip(t *testing.T) {
	for _, n := range []float64{0, 1, -3.25, 42.5, 1000} {
		if got := ParseDimension(FormatPx(n), 333); got != n {
			t.Fatalf("px round trip: %v -> %v", n, got)
		}
		want := n / 100 * 640
		if got := ParseDimension(FormatPercent(n), 640); math.Abs(got-want) > 1e-9 {
			t.Fatalf("%% round trip: %v -> %v, want %v", n, got, want)
		}
	}
}

func TestIsPercent(t *testing.T) {
	if !IsPercent("50%") || IsPercent("50px") || IsPercent("") {
		t.Fatalf("IsPercent misclassified input")
	}
}
