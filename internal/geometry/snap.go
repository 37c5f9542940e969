/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Snapping helpers for interactive tools. These are UI-agnostic and
// deterministic: same inputs, same snap, same guides. All values are in
// document space; the gesture layer divides screen deltas by zoom before
// calling in, and the threshold is never scaled.

import (
	"math"

	"posterforge/internal/domain"
)

// SnapThresholdPx is the fixed snap distance in document pixels.
const SnapThresholdPx = 5

// Axis selects the horizontal or vertical snap pass.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// GuideLine describes a visual alignment line produced by a snap hit.
// Orientation is "vertical" or "horizontal"; Kind is "edge", "center" or
// "canvas". From and To are the extents to render. Guides are transient:
// recomputed on every pointer move, cleared on gesture end.
type GuideLine struct {
	Orientation string       `json:"orientation"`
	Kind        string       `json:"kind"`
	Position    float64      `json:"position"`
	From        domain.Point `json:"from"`
	To          domain.Point `json:"to"`
}

// SnapResult carries the (possibly corrected) axis delta and the guide to
// render, nil when nothing snapped.
type SnapResult struct {
	Delta float64
	Guide *GuideLine
}

type snapCandidate struct {
	value float64
	kind  string
	rect  Bounds
}

// ComputeSnap tests the moving element's near-edge, center and far-edge —
// in that priority order — against every candidate value on the axis:
// three per target (near edge, center, far edge, in target order) followed
// by the canvas edges and canvas center. The first candidate within
// threshold wins and the delta is corrected so the element lands exactly on
// it; an element already exactly aligned still counts as snapped and still
// yields its guide. At most one snap per axis per call.
//
// moving is the gesture-start bounds and delta the live document-space
// delta for this axis. Zero-sized targets are ignored (grid children report
// zero bounds, meaning "position unknown, do not snap against me").
func ComputeSnap(axis Axis, moving Bounds, delta float64, targets []Bounds, canvas domain.Size, threshold float64) SnapResult {
	if threshold <= 0 {
		threshold = SnapThresholdPx
	}

	extent := canvas.Width
	if axis == AxisY {
		extent = canvas.Height
	}
	canvasRect := BoundsAt(0, 0, canvas.Width, canvas.Height)

	candidates := make([]snapCandidate, 0, 3*len(targets)+3)
	for _, t := range targets {
		if t.IsZero() {
			continue
		}
		if axis == AxisX {
			candidates = append(candidates,
				snapCandidate{t.Left, "edge", t},
				snapCandidate{t.CenterX, "center", t},
				snapCandidate{t.Right, "edge", t},
			)
		} else {
			candidates = append(candidates,
				snapCandidate{t.Top, "edge", t},
				snapCandidate{t.CenterY, "center", t},
				snapCandidate{t.Bottom, "edge", t},
			)
		}
	}
	candidates = append(candidates,
		snapCandidate{0, "canvas", canvasRect},
		snapCandidate{extent / 2, "canvas", canvasRect},
		snapCandidate{extent, "canvas", canvasRect},
	)

	var features [3]float64
	if axis == AxisX {
		features = [3]float64{moving.Left, moving.CenterX, moving.Right}
	} else {
		features = [3]float64{moving.Top, moving.CenterY, moving.Bottom}
	}

	for _, feature := range features {
		current := feature + delta
		for _, c := range candidates {
			if math.Abs(current-c.value) > threshold {
				continue
			}
			corrected := delta + (c.value - current)
			snapped := moving
			if axis == AxisX {
				snapped = moving.Offset(corrected, 0)
			} else {
				snapped = moving.Offset(0, corrected)
			}
			g := guideAt(axis, c, snapped)
			return SnapResult{Delta: corrected, Guide: &g}
		}
	}
	return SnapResult{Delta: delta}
}

func guideAt(axis Axis, c snapCandidate, moving Bounds) GuideLine {
	if axis == AxisX {
		minY := math.Min(moving.Top, c.rect.Top)
		maxY := math.Max(moving.Bottom, c.rect.Bottom)
		return GuideLine{
			Orientation: "vertical",
			Kind:        c.kind,
			Position:    c.value,
			From:        domain.Point{X: c.value, Y: minY},
			To:          domain.Point{X: c.value, Y: maxY},
		}
	}
	minX := math.Min(moving.Left, c.rect.Left)
	maxX := math.Max(moving.Right, c.rect.Right)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        c.kind,
		Position:    c.value,
		From:        domain.Point{X: minX, Y: c.value},
		To:          domain.Point{X: maxX, Y: c.value},
	}
}

// ComputeSnapXY runs both axis passes and collects the guides.
func ComputeSnapXY(moving Bounds, dx, dy float64, targets []Bounds, canvas domain.Size, threshold float64) (adjX, adjY float64, guides []GuideLine) {
	rx := ComputeSnap(AxisX, moving, dx, targets, canvas, threshold)
	ry := ComputeSnap(AxisY, moving, dy, targets, canvas, threshold)
	if rx.Guide != nil {
		guides = append(guides, *rx.Guide)
	}
	if ry.Guide != nil {
		guides = append(guides, *ry.Guide)
	}
	return rx.Delta, ry.Delta, guides
}
