/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"fmt"

	"posterforge/internal/document"
	"posterforge/internal/domain"
	"posterforge/internal/geometry"
)

// MinSizePx is the floor a resize clamps to before any unit conversion.
const MinSizePx = 20

// Resize grows the element from its bottom-right handle. Per axis it grows
// whichever of size or far-edge constraint is present, preserving that
// value's unit; decorations scale their width percentage with the height
// following the aspect ratio.
func (c *Controller) Resize(dxScreen, dyScreen float64) (domain.Poster, error) {
	if c.state != Resizing {
		return domain.Poster{}, fmt.Errorf("gesture: resize in state %s", c.state)
	}
	z := c.zoom()
	dx, dy := dxScreen/z, dyScreen/z

	if c.start.isDecoration {
		w := c.start.bounds.Width + dx
		if w < MinSizePx {
			w = MinSizePx
		}
		pct := w / c.start.canvas.Width * 100
		next, _ := document.ApplyDecorationPatch(c.start.poster, c.start.id, document.DecorationPatch{WidthPercent: &pct})
		return next, nil
	}

	cons := c.start.constraints
	rel := c.start.bounds.Offset(-c.start.parentOrigin.X, -c.start.parentOrigin.Y)

	cons.Width, cons.Right = resizeAxis(cons.Width, cons.Right,
		rel.Width+dx, rel.Left, c.start.parentSize.Width)
	cons.Height, cons.Bottom = resizeAxis(cons.Height, cons.Bottom,
		rel.Height+dy, rel.Top, c.start.parentSize.Height)

	next, _ := document.ApplyBoxPatch(c.start.poster, c.start.id, document.BoxPatch{Constraints: &cons})
	return next, nil
}

// resizeAxis applies a new length to one axis. The minimum size floor is
// enforced on the pixel value before any percentage conversion.
func resizeAxis(size, far string, newLen, relPos, extent float64) (string, string) {
	if newLen < MinSizePx {
		newLen = MinSizePx
	}
	switch {
	case size != "":
		if geometry.IsPercent(size) && extent != 0 {
			size = geometry.FormatPercent(newLen / extent * 100)
		} else {
			size = geometry.FormatPx(newLen)
		}
	case far != "":
		// stretched or far-pinned axis: move the far edge to realize the
		// new length, keeping its unit
		farPx := extent - relPos - newLen
		if geometry.IsPercent(far) && extent != 0 {
			far = geometry.FormatPercent(farPx / extent * 100)
		} else {
			far = geometry.FormatPx(farPx)
		}
	default:
		size = geometry.FormatPx(newLen)
	}
	return size, far
}
