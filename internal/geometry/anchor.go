/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Anchor-relative placement: an anchored element's position is a pure
// function of the target's resolved bounds, its own size, an origin point,
// an attachment mode, and an offset. Looking up the target by id is the
// caller's job; this file is pure arithmetic.

import (
	"strings"

	"posterforge/internal/domain"
)

// ResolveAnchoredPosition returns the top-left position of an element
// attached to target. Offset components are dimension strings resolved
// against parent width (X) and parent height (Y).
func ResolveAnchoredPosition(a domain.Anchor, target Bounds, self, parent domain.Size) domain.Point {
	origin := originOn(target, a.Origin)
	attach := attachmentPoint(a.Origin, a.Mode, self)
	return domain.Point{
		X: origin.X - attach.X + ParseDimension(a.Offset.X, parent.Width),
		Y: origin.Y - attach.Y + ParseDimension(a.Offset.Y, parent.Height),
	}
}

// originOn decomposes the origin point name into independent axis
// components by keyword; either keyword missing selects the center.
func originOn(t Bounds, p domain.OriginPoint) domain.Point {
	s := string(p)
	x := t.CenterX
	if strings.Contains(s, "left") {
		x = t.Left
	} else if strings.Contains(s, "right") {
		x = t.Right
	}
	y := t.CenterY
	if strings.Contains(s, "top") {
		y = t.Top
	} else if strings.Contains(s, "bottom") {
		y = t.Bottom
	}
	return domain.Point{X: x, Y: y}
}

func attachmentPoint(p domain.OriginPoint, mode domain.AttachmentMode, self domain.Size) domain.Point {
	if mode == domain.AttachOutside {
		return outsideAttachment(p, self)
	}
	return insideAttachment(p, self)
}

// insideAttachment mirrors the origin decomposition onto the element's own
// size, so the matching points coincide.
func insideAttachment(p domain.OriginPoint, self domain.Size) domain.Point {
	s := string(p)
	x := self.Width / 2
	if strings.Contains(s, "left") {
		x = 0
	} else if strings.Contains(s, "right") {
		x = self.Width
	}
	y := self.Height / 2
	if strings.Contains(s, "top") {
		y = 0
	} else if strings.Contains(s, "bottom") {
		y = self.Height
	}
	return domain.Point{X: x, Y: y}
}

// outsideAttachment is a fixed nine-way table, not a formula: the element
// attaches by the point geometrically opposite the origin, so it renders
// just beyond the referenced target edge. Center has no opposite and keeps
// the inside behavior.
func outsideAttachment(p domain.OriginPoint, self domain.Size) domain.Point {
	w, h := self.Width, self.Height
	switch p {
	case domain.OriginTopLeft:
		return domain.Point{X: w, Y: h}
	case domain.OriginTopCenter:
		return domain.Point{X: w / 2, Y: h}
	case domain.OriginTopRight:
		return domain.Point{X: 0, Y: h}
	case domain.OriginCenterLeft:
		return domain.Point{X: w, Y: h / 2}
	case domain.OriginCenter:
		return domain.Point{X: w / 2, Y: h / 2}
	case domain.OriginCenterRight:
		return domain.Point{X: 0, Y: h / 2}
	case domain.OriginBottomLeft:
		return domain.Point{X: w, Y: 0}
	case domain.OriginBottomCenter:
		return domain.Point{X: w / 2, Y: 0}
	case domain.OriginBottomRight:
		return domain.Point{X: 0, Y: 0}
	default:
		// Unknown origin names degrade to the inside decomposition.
		return insideAttachment(p, self)
	}
}
