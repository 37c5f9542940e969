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

// Drag recomputes the document from the pointer-down snapshot and the
// cumulative screen-space delta. The delta is divided by zoom, snapped
// against the candidate set captured at pointer-down, and written back as a
// constraint, anchor-offset or decoration-position patch depending on the
// element's positioning mode.
func (c *Controller) Drag(dxScreen, dyScreen float64) (domain.Poster, error) {
	if c.state != Dragging {
		return domain.Poster{}, fmt.Errorf("gesture: drag in state %s", c.state)
	}
	z := c.zoom()
	dx, dy, guides := geometry.ComputeSnapXY(
		c.start.bounds, dxScreen/z, dyScreen/z,
		c.start.targets, c.start.canvas, c.threshold())
	c.guides = guides

	if c.start.isDecoration {
		return c.dragDecoration(dx, dy)
	}
	if c.start.anchor != nil {
		return c.dragAnchored(dx, dy)
	}
	return c.dragConstrained(dx, dy)
}

// dragAnchored moves an anchored element by mutating its offset only; the
// anchor relation itself is untouched.
func (c *Controller) dragAnchored(dx, dy float64) (domain.Poster, error) {
	off := domain.Offset{
		X: shiftDimension(c.start.anchor.Offset.X, dx, c.start.parentSize.Width),
		Y: shiftDimension(c.start.anchor.Offset.Y, dy, c.start.parentSize.Height),
	}
	a := *c.start.anchor
	a.Offset = off

	if c.start.isDecoration {
		next, _ := document.ApplyDecorationPatch(c.start.poster, c.start.id, document.DecorationPatch{AnchorOffset: &off})
		return next, nil
	}
	next, _ := document.ApplyBoxPatch(c.start.poster, c.start.id, document.BoxPatch{Anchor: &a})
	return next, nil
}

func (c *Controller) dragDecoration(dx, dy float64) (domain.Poster, error) {
	if c.start.anchor != nil {
		return c.dragAnchored(dx, dy)
	}
	var start domain.DecorationPosition
	if c.start.decoration.Position != nil {
		start = *c.start.decoration.Position
	}
	canvasW := c.start.canvas.Width
	pos := domain.DecorationPosition{
		XPercent: (start.XPercent/100*canvasW + dx) / canvasW * 100,
		YPx:      start.YPx + dy,
	}
	next, _ := document.ApplyDecorationPatch(c.start.poster, c.start.id, document.DecorationPatch{Position: &pos})
	return next, nil
}

func (c *Controller) dragConstrained(dx, dy float64) (domain.Poster, error) {
	cons := c.start.constraints
	rel := c.start.bounds.Offset(-c.start.parentOrigin.X, -c.start.parentOrigin.Y)

	cons.Left, cons.Right, cons.Width, cons.CenterX = dragAxis(
		cons.Left, cons.Right, cons.Width, cons.CenterX,
		dx, c.start.parentSize.Width, rel.Left, rel.Width)
	cons.Top, cons.Bottom, cons.Height, cons.CenterY = dragAxis(
		cons.Top, cons.Bottom, cons.Height, cons.CenterY,
		dy, c.start.parentSize.Height, rel.Top, rel.Height)

	next, _ := document.ApplyBoxPatch(c.start.poster, c.start.id, document.BoxPatch{Constraints: &cons})
	return next, nil
}

// dragAxis moves one axis of a constraint set, preserving each touched
// value's unit. A box stretched between both edges (no center) cannot keep
// both under a drag: the far edge is dropped and the resolved length pinned
// as an explicit size, converting stretch to edge+size.
func dragAxis(near, far, size, center string, delta, extent, relPos, length float64) (string, string, string, string) {
	switch {
	case center != "" && size != "":
		center = shiftDimension(center, delta, extent)
	case near != "" && far != "":
		near = shiftDimension(near, delta, extent)
		size = geometry.FormatPx(length)
		far = ""
	case near != "":
		near = shiftDimension(near, delta, extent)
	case far != "":
		far = shiftDimension(far, -delta, extent)
	default:
		// size-only, center-only or empty axis: pin the near edge (and the
		// current length, so a size-less axis does not grow a fallback
		// size). A leftover center would outrank the pinned edge once a
		// size exists, so it is dropped.
		near = geometry.FormatPx(relPos + delta)
		if size == "" {
			size = geometry.FormatPx(length)
		}
		center = ""
	}
	return near, far, size, center
}

// shiftDimension adds a pixel delta to a dimension string while keeping its
// unit: px stays px, % is recomputed against the reference extent. An unset
// value starts from zero and becomes px.
func shiftDimension(value string, deltaPx, ref float64) string {
	next := geometry.ParseDimension(value, ref) + deltaPx
	if geometry.IsPercent(value) && ref != 0 {
		return geometry.FormatPercent(next / ref * 100)
	}
	return geometry.FormatPx(next)
}
