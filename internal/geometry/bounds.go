/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Constraint resolution: turning a partial, possibly over- or
// under-specified constraint set into concrete pixel bounds. The precedence
// policy below is the single source of truth for what an under-specified
// box looks like; editor behavior for freshly created boxes depends on it.

import "posterforge/internal/domain"

// FallbackSize is the edge length used when a constraint set names a single
// edge but no size.
const FallbackSize = 50

// Bounds is fully derived pixel geometry. All fields are kept internally
// consistent: Right = Left+Width, CenterX = Left+Width/2, and so on.
type Bounds struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Right   float64 `json:"right"`
	Bottom  float64 `json:"bottom"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
}

// BoundsAt builds consistent Bounds from a top-left position and a size.
func BoundsAt(left, top, width, height float64) Bounds {
	return Bounds{
		Left:    left,
		Top:     top,
		Width:   width,
		Height:  height,
		Right:   left + width,
		Bottom:  top + height,
		CenterX: left + width/2,
		CenterY: top + height/2,
	}
}

// Size returns the bounds' extent as a Size.
func (b Bounds) Size() domain.Size { return domain.Size{Width: b.Width, Height: b.Height} }

// IsZero reports degenerate bounds. Grid-parented boxes resolve to zero
// bounds (position indeterminate); callers must not snap against them.
func (b Bounds) IsZero() bool { return b == Bounds{} }

// Offset returns the bounds translated by dx,dy.
func (b Bounds) Offset(dx, dy float64) Bounds {
	return BoundsAt(b.Left+dx, b.Top+dy, b.Width, b.Height)
}

// ResolveBounds resolves a constraint set against a parent size. The two
// axes are independent; per axis the first matching rule wins:
//
//  1. center + size: centered at parentExtent/2 + centerOffset
//  2. both edges: position at near edge, size = extent - near - far
//     (may be negative; not clamped)
//  3. one edge + size: position from that edge
//  4. one edge, no size: FallbackSize, positioned from that edge
//  5. size only: centered in parent
//  6. nothing: position 0, size 0
func ResolveBounds(c domain.Constraints, parent domain.Size) Bounds {
	left, width := resolveAxis(c.Left, c.Right, c.Width, c.CenterX, parent.Width)
	top, height := resolveAxis(c.Top, c.Bottom, c.Height, c.CenterY, parent.Height)
	return BoundsAt(left, top, width, height)
}

func resolveAxis(near, far, size, center string, extent float64) (pos, length float64) {
	hasNear := near != ""
	hasFar := far != ""
	hasSize := size != ""
	hasCenter := center != ""

	switch {
	case hasCenter && hasSize:
		length = ParseDimension(size, extent)
		pos = extent/2 + ParseDimension(center, extent) - length/2
	case hasNear && hasFar:
		n := ParseDimension(near, extent)
		f := ParseDimension(far, extent)
		pos = n
		length = extent - n - f
	case hasNear && hasSize:
		pos = ParseDimension(near, extent)
		length = ParseDimension(size, extent)
	case hasFar && hasSize:
		length = ParseDimension(size, extent)
		pos = extent - ParseDimension(far, extent) - length
	case hasNear:
		pos = ParseDimension(near, extent)
		length = FallbackSize
	case hasFar:
		pos = extent - ParseDimension(far, extent) - FallbackSize
		length = FallbackSize
	case hasSize:
		length = ParseDimension(size, extent)
		pos = (extent - length) / 2
	default:
		pos, length = 0, 0
	}
	return pos, length
}
