/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package document

// Bounds resolution over the whole tree. All returned bounds are in
// document (canvas) space. Resolution is memoized per element and guarded
// against anchor cycles: a cycle degrades the element to constraint-based
// placement instead of recursing forever. All failure is local — a missing
// anchor target, an empty constraint set, an unknown id — and maps to the
// defined fallbacks; nothing here returns an error.

import (
	"posterforge/internal/domain"
	"posterforge/internal/geometry"
)

// Resolver computes and caches document-space bounds for every element of
// one poster revision. Build a fresh Resolver after each document
// transition; cached bounds are only valid for the revision they were
// computed from.
type Resolver struct {
	poster *domain.Poster
	parent map[string]string
	nodes  map[string]domain.Section
	memo   map[string]geometry.Bounds
	busy   map[string]bool
}

// NewResolver indexes the poster tree.
func NewResolver(p *domain.Poster) *Resolver {
	r := &Resolver{
		poster: p,
		parent: make(map[string]string),
		nodes:  make(map[string]domain.Section),
		memo:   make(map[string]geometry.Bounds),
		busy:   make(map[string]bool),
	}
	Walk(p, func(s domain.Section, parentID string) bool {
		r.nodes[s.ID()] = s
		r.parent[s.ID()] = parentID
		return true
	})
	return r
}

// Canvas returns the poster's canvas size.
func (r *Resolver) Canvas() domain.Size { return r.poster.Canvas }

// BoundsOf resolves the document-space bounds of any section by id.
// Unknown ids resolve to zero bounds. Text and image sections fill their
// containing box.
func (r *Resolver) BoundsOf(id string) geometry.Bounds {
	if b, ok := r.memo[id]; ok {
		return b
	}
	s, ok := r.nodes[id]
	if !ok {
		return geometry.Bounds{}
	}
	if r.busy[id] {
		// Anchor cycle: fall back to constraint placement for this node.
		if box, ok := s.(*domain.LayoutBox); ok {
			return r.constraintBounds(box)
		}
		return geometry.Bounds{}
	}
	r.busy[id] = true
	defer delete(r.busy, id)

	var b geometry.Bounds
	switch v := s.(type) {
	case *domain.LayoutBox:
		b = r.boxBounds(v)
	case *domain.TextSection, *domain.ImageSection:
		b = r.parentBounds(id)
	}
	r.memo[id] = b
	return b
}

// ResolveAll resolves every section and returns the id→bounds map.
func (r *Resolver) ResolveAll() map[string]geometry.Bounds {
	out := make(map[string]geometry.Bounds, len(r.nodes))
	for id := range r.nodes {
		out[id] = r.BoundsOf(id)
	}
	return out
}

// parentBounds returns the resolved bounds of the element's containing box,
// or the canvas rect for roots.
func (r *Resolver) parentBounds(id string) geometry.Bounds {
	parentID := r.parent[id]
	if parentID == "" {
		return geometry.BoundsAt(0, 0, r.poster.Canvas.Width, r.poster.Canvas.Height)
	}
	return r.BoundsOf(parentID)
}

func (r *Resolver) parentMode(id string) domain.LayoutMode {
	parentID := r.parent[id]
	if parentID == "" {
		return domain.LayoutAbsolute
	}
	if box, ok := r.nodes[parentID].(*domain.LayoutBox); ok {
		return box.LayoutMode
	}
	return domain.LayoutAbsolute
}

func (r *Resolver) boxBounds(box *domain.LayoutBox) geometry.Bounds {
	// Exactly one positioning mode applies: anchor, parent layout, or
	// constraints — in that order of determination.
	if box.Anchor != nil {
		return r.anchoredBounds(box)
	}
	switch r.parentMode(box.BoxID) {
	case domain.LayoutGrid:
		// Position indeterminate: reported all-zero so callers skip this
		// box when snapping.
		return geometry.Bounds{}
	case domain.LayoutFlex:
		return r.flexChildBounds(box)
	}
	return r.constraintBounds(box)
}

func (r *Resolver) constraintBounds(box *domain.LayoutBox) geometry.Bounds {
	pb := r.parentBounds(box.BoxID)
	var c domain.Constraints
	if box.Constraints != nil {
		c = *box.Constraints
	}
	rel := geometry.ResolveBounds(c, pb.Size())
	return geometry.BoundsAt(pb.Left+rel.Left, pb.Top+rel.Top, rel.Width, rel.Height)
}

// anchoredBounds positions a box relative to its anchor target. A missing
// target id falls back to constraint-based placement.
func (r *Resolver) anchoredBounds(box *domain.LayoutBox) geometry.Bounds {
	target, ok := r.nodes[box.Anchor.ElementID]
	if !ok {
		return r.constraintBounds(box)
	}
	targetBounds := r.BoundsOf(target.ID())
	pb := r.parentBounds(box.BoxID)

	// The anchored element keeps its own size: resolve the size-bearing
	// constraints against the parent, ignoring any position they imply.
	var c domain.Constraints
	if box.Constraints != nil {
		c = domain.Constraints{Width: box.Constraints.Width, Height: box.Constraints.Height}
	}
	size := geometry.ResolveBounds(c, pb.Size()).Size()

	pos := geometry.ResolveAnchoredPosition(*box.Anchor, targetBounds, size, pb.Size())
	return geometry.BoundsAt(pos.X, pos.Y, size.Width, size.Height)
}

// flexChildBounds lays out all flex children of the parent in one pass and
// returns this child's slot: a single left-to-right row filling the parent,
// base widths from each child's width constraint, leftover distributed by
// FlexGrow (equally among unsized children when no grow factors are set).
func (r *Resolver) flexChildBounds(box *domain.LayoutBox) geometry.Bounds {
	parentID := r.parent[box.BoxID]
	parent, ok := r.nodes[parentID].(*domain.LayoutBox)
	if !ok {
		return r.constraintBounds(box)
	}
	pb := r.BoundsOf(parentID)

	type item struct {
		id   string
		base float64
		grow float64
	}
	var items []item
	var used, totalGrow float64
	unsized := 0
	for _, s := range parent.Sections {
		child, ok := s.(*domain.LayoutBox)
		if !ok || child.Anchor != nil {
			continue
		}
		it := item{id: child.BoxID, grow: child.FlexGrow}
		if child.Constraints != nil && child.Constraints.Width != "" {
			it.base = geometry.ParseDimension(child.Constraints.Width, pb.Width)
		} else {
			unsized++
		}
		used += it.base
		totalGrow += it.grow
		items = append(items, it)
	}

	leftover := pb.Width - used
	x := pb.Left
	for _, it := range items {
		w := it.base
		if leftover > 0 {
			if totalGrow > 0 {
				w += leftover * it.grow / totalGrow
			} else if it.base == 0 && unsized > 0 {
				w += leftover / float64(unsized)
			}
		}
		b := geometry.BoundsAt(x, pb.Top, w, pb.Height)
		if it.id == box.BoxID {
			return b
		}
		x += w
	}
	return r.constraintBounds(box)
}

// DecorationBounds resolves a decoration's unrotated document-space bounds:
// width as a percentage of canvas width, height following the intrinsic
// aspect ratio, position either free (xPercent/yPx) or anchored.
func (r *Resolver) DecorationBounds(d domain.Decoration) geometry.Bounds {
	canvas := r.poster.Canvas
	w := d.WidthPercent / 100 * canvas.Width
	aspect := d.AspectRatio
	if aspect <= 0 {
		aspect = 1
	}
	h := w / aspect
	size := domain.Size{Width: w, Height: h}

	if d.Anchor != nil {
		if _, ok := r.nodes[d.Anchor.ElementID]; ok {
			target := r.BoundsOf(d.Anchor.ElementID)
			pos := geometry.ResolveAnchoredPosition(*d.Anchor, target, size, canvas)
			return geometry.BoundsAt(pos.X, pos.Y, w, h)
		}
		// Missing target: fall through to free placement.
	}
	var x, y float64
	if d.Position != nil {
		x = d.Position.XPercent / 100 * canvas.Width
		y = d.Position.YPx
	}
	return geometry.BoundsAt(x, y, w, h)
}

// DecorationDisplaySize returns the axis-aligned extent of the decoration
// once its rotation is applied.
func (r *Resolver) DecorationDisplaySize(d domain.Decoration) domain.Size {
	b := r.DecorationBounds(d)
	return geometry.RotatedBounds(b.Width, b.Height, d.Angle)
}

// SnapTargets collects the candidate bounds a moving element may snap to:
// sibling sections for a box, root boxes plus the other decorations for a
// decoration. Zero bounds (grid children) are skipped; canvas edges and
// center are contributed by the snap engine itself.
func (r *Resolver) SnapTargets(movingID string) []geometry.Bounds {
	if FindDecoration(r.poster, movingID) != nil {
		var out []geometry.Bounds
		for _, s := range r.poster.Sections {
			if b := r.BoundsOf(s.ID()); !b.IsZero() {
				out = append(out, b)
			}
		}
		for _, d := range r.poster.Decorations {
			if d.ID == movingID {
				continue
			}
			if b := r.DecorationBounds(d); !b.IsZero() {
				out = append(out, b)
			}
		}
		return out
	}

	siblings := SiblingsOf(r.poster, movingID)
	out := make([]geometry.Bounds, 0, len(siblings))
	for _, s := range siblings {
		b := r.BoundsOf(s.ID())
		if b.IsZero() {
			continue
		}
		out = append(out, b)
	}
	return out
}
