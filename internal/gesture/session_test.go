/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"errors"
	"math"
	"testing"

	"posterforge/internal/document"
	"posterforge/internal/domain"
)

func gesturePoster() domain.Poster {
	return domain.Poster{
		ID:     "p",
		Canvas: domain.Size{Width: 800, Height: 600},
		Sections: domain.SectionList{
			&domain.LayoutBox{
				BoxID:       "a",
				Constraints: &domain.Constraints{Left: "100px", Top: "100px", Width: "200px", Height: "100px"},
			},
			&domain.LayoutBox{
				BoxID:       "b",
				Constraints: &domain.Constraints{Left: "400px", Top: "300px", Width: "100px", Height: "100px"},
			},
			&domain.LayoutBox{
				BoxID:       "stretch",
				Constraints: &domain.Constraints{Left: "100px", Right: "100px", Top: "550px", Height: "40px"},
			},
		},
		Decorations: []domain.Decoration{
			{ID: "star", AspectRatio: 2, WidthPercent: 25, Angle: 15,
				Position: &domain.DecorationPosition{XPercent: 0, YPx: 0}},
		},
	}
}

func boxConstraints(t *testing.T, p domain.Poster, id string) domain.Constraints {
	t.Helper()
	box := document.FindBox(&p, id)
	if box == nil || box.Constraints == nil {
		t.Fatalf("box %q or its constraints missing", id)
	}
	return *box.Constraints
}

func TestDragMovesEdgeConstraints(t *testing.T) {
	c := NewController(1)
	if err := c.BeginDrag(gesturePoster(), "a"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	next, err := c.Drag(50, 30)
	if err != nil {
		t.Fatalf("drag: %v", err)
	}
	got := boxConstraints(t, next, "a")
	if got.Left != "150px" || got.Top != "130px" {
		t.Fatalf("got %+v", got)
	}
	if got.Width != "200px" || got.Height != "100px" {
		t.Fatalf("size must be untouched by drag: %+v", got)
	}
}

func TestDragDividesByZoom(t *testing.T) {
	c := NewController(2)
	if err := c.BeginDrag(gesturePoster(), "a"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	next, _ := c.Drag(50, 30)
	got := boxConstraints(t, next, "a")
	if got.Left != "125px" || got.Top != "115px" {
		t.Fatalf("screen deltas must be divided by zoom: %+v", got)
	}
}

func TestDragSnapshotIndependence(t *testing.T) {
	// Applying d1 then d1+d2 on one session must equal applying d1+d2
	// directly on a fresh session from the same document.
	p := gesturePoster()

	c1 := NewController(1)
	_ = c1.BeginDrag(p, "a")
	_, _ = c1.Drag(13, 7)           // intermediate move, result discarded
	composed, _ := c1.Drag(33, 27)  // cumulative delta from pointer-down
	c1.End()

	c2 := NewController(1)
	_ = c2.BeginDrag(p, "a")
	direct, _ := c2.Drag(33, 27)
	c2.End()

	if boxConstraints(t, composed, "a") != boxConstraints(t, direct, "a") {
		t.Fatalf("gesture drifted: %+v vs %+v",
			boxConstraints(t, composed, "a"), boxConstraints(t, direct, "a"))
	}
}

func TestDragStretchedAxisDropsFarEdge(t *testing.T) {
	c := NewController(1)
	_ = c.BeginDrag(gesturePoster(), "stretch")
	next, _ := c.Drag(10, 0)
	got := boxConstraints(t, next, "stretch")
	if got.Right != "" {
		t.Fatalf("far edge must be dropped when dragging a stretched axis: %+v", got)
	}
	// resolved width (800-100-100=600) pinned as explicit size
	if got.Left != "110px" || got.Width != "600px" {
		t.Fatalf("got %+v", got)
	}
	// vertical axis untouched semantics: top absent, bottom absent, height kept
	if got.Height != "40px" {
		t.Fatalf("height clobbered: %+v", got)
	}
}

func TestDragCenterOnlyAxisDropsCenter(t *testing.T) {
	p := gesturePoster()
	p.Sections = append(p.Sections, &domain.LayoutBox{
		BoxID:       "pin",
		Constraints: &domain.Constraints{CenterX: "0px", Top: "100px", Height: "40px"},
	})
	c := NewController(1)
	_ = c.BeginDrag(p, "pin")
	next, _ := c.Drag(50, 30)
	got := boxConstraints(t, next, "pin")
	// A center with no size resolves to zero bounds; pinning an edge plus a
	// size must also drop the center, or the stale center+size pair would
	// keep resolving to the pre-drag position.
	if got.CenterX != "" {
		t.Fatalf("center must be dropped when the drag pins an edge: %+v", got)
	}
	if got.Left != "50px" || got.Width != "0px" {
		t.Fatalf("got %+v", got)
	}
	if got.Top != "130px" || got.Height != "40px" {
		t.Fatalf("edge+size axis clobbered: %+v", got)
	}
}

func TestDragSnapsToSiblingAndEmitsGuide(t *testing.T) {
	c := NewController(1)
	_ = c.BeginDrag(gesturePoster(), "a")
	// a.Right starts at 300; a 97px drag puts it 3px short of b.Left=400
	next, _ := c.Drag(97, 0)
	got := boxConstraints(t, next, "a")
	if got.Left != "200px" {
		t.Fatalf("expected snap-corrected left 200px, got %+v", got)
	}
	guides := c.Guides()
	if len(guides) != 1 || guides[0].Orientation != "vertical" || guides[0].Position != 400 {
		t.Fatalf("expected vertical guide at 400, got %+v", guides)
	}
	c.End()
	if c.Guides() != nil {
		t.Fatalf("guides must be cleared on gesture end")
	}
}

func TestDragAnchoredMutatesOffsetOnly(t *testing.T) {
	p := gesturePoster()
	p.Sections = append(p.Sections, &domain.LayoutBox{
		BoxID:       "badge",
		Anchor:      &domain.Anchor{ElementID: "b", Origin: domain.OriginTopLeft, Mode: domain.AttachOutside},
		Constraints: &domain.Constraints{Width: "30px", Height: "30px"},
	})
	c := NewController(1)
	_ = c.BeginDrag(p, "badge")
	next, _ := c.Drag(-13, 8)
	box := document.FindBox(&next, "badge")
	if box.Anchor == nil {
		t.Fatalf("anchor must survive the drag")
	}
	if box.Anchor.Offset.X != "-13px" || box.Anchor.Offset.Y != "8px" {
		t.Fatalf("offset: %+v", box.Anchor.Offset)
	}
	if *box.Constraints != (domain.Constraints{Width: "30px", Height: "30px"}) {
		t.Fatalf("constraints must be untouched: %+v", box.Constraints)
	}
}

func TestDragFreeDecoration(t *testing.T) {
	c := NewController(1)
	_ = c.BeginDrag(gesturePoster(), "star")
	next, _ := c.Drag(80, 25)
	d := document.FindDecoration(&next, "star")
	if d.Position == nil {
		t.Fatalf("free decoration keeps positional placement")
	}
	if d.Position.XPercent != 10 || d.Position.YPx != 25 {
		t.Fatalf("position: %+v", d.Position)
	}
}

func TestOverlappingSessionsRejected(t *testing.T) {
	c := NewController(1)
	_ = c.BeginDrag(gesturePoster(), "a")
	if err := c.BeginResize(gesturePoster(), "b"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	c.End()
	if err := c.BeginResize(gesturePoster(), "b"); err != nil {
		t.Fatalf("controller must be reusable after End: %v", err)
	}
}

func TestResizeGrowsWidthPreservingUnit(t *testing.T) {
	p := gesturePoster()
	document.FindBox(&p, "a").Constraints.Width = "25%" // 200px of 800
	c := NewController(1)
	_ = c.BeginResize(p, "a")
	next, _ := c.Resize(100, 0)
	got := boxConstraints(t, next, "a")
	if got.Width != "37.5%" { // 300/800
		t.Fatalf("percent width must stay percent: %+v", got)
	}
}

func TestResizeMinimumFloor(t *testing.T) {
	c := NewController(1)
	_ = c.BeginResize(gesturePoster(), "a")
	next, _ := c.Resize(-500, -500)
	got := boxConstraints(t, next, "a")
	if got.Width != "20px" || got.Height != "20px" {
		t.Fatalf("floor not enforced: %+v", got)
	}
}

func TestResizeStretchedAxisMovesFarEdge(t *testing.T) {
	c := NewController(1)
	_ = c.BeginResize(gesturePoster(), "stretch")
	next, _ := c.Resize(50, 0)
	got := boxConstraints(t, next, "stretch")
	// width absent: the right constraint absorbs the growth
	if got.Width != "" || got.Right != "50px" || got.Left != "100px" {
		t.Fatalf("got %+v", got)
	}
}

func TestResizeDecorationKeepsAspect(t *testing.T) {
	c := NewController(1)
	_ = c.BeginResize(gesturePoster(), "star")
	next, _ := c.Resize(40, 0) // 200px -> 240px of 800
	d := document.FindDecoration(&next, "star")
	if d.WidthPercent != 30 {
		t.Fatalf("width percent: %v", d.WidthPercent)
	}
	if d.AspectRatio != 2 {
		t.Fatalf("aspect ratio must not change on resize")
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	p := gesturePoster()
	c := NewController(1)
	// star bounds: (0,0,200,100), center (100,50)
	if err := c.BeginRotate(p, "star", domain.Point{X: 200, Y: 50}); err != nil {
		t.Fatalf("begin rotate: %v", err)
	}
	next, err := c.RotateTo(domain.Point{X: 100, Y: 150})
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	d := document.FindDecoration(&next, "star")
	if math.Abs(d.Angle-105) > 1e-9 { // 15 + 90
		t.Fatalf("angle: %v", d.Angle)
	}
}

func TestRotateRejectsBoxes(t *testing.T) {
	c := NewController(1)
	if err := c.BeginRotate(gesturePoster(), "a", domain.Point{}); err == nil {
		t.Fatalf("boxes are not rotatable")
	}
	if c.State() != Idle {
		t.Fatalf("failed begin must leave the controller idle")
	}
}
