/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import "posterforge/internal/geometry"

// guideSegment maps a snap guide to screen-space line endpoints. A vertical
// guide runs at x=Position between the From/To y coordinates; a horizontal
// one at y=Position between the x coordinates.
func guideSegment(g geometry.GuideLine, zoom float64) (x1, y1, x2, y2 float32) {
	z := float32(zoom)
	if g.Orientation == "vertical" {
		x := float32(g.Position) * z
		return x, float32(g.From.Y) * z, x, float32(g.To.Y) * z
	}
	y := float32(g.Position) * z
	return float32(g.From.X) * z, y, float32(g.To.X) * z, y
}
