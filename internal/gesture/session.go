/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture drives interactive manipulation as an explicit state
// machine: Idle → Dragging|Resizing|Rotating → Idle. A session captures an
// immutable snapshot of the document at pointer-down; every pointer move
// recomputes the result from that snapshot plus the cumulative delta, never
// from the previous frame's output, so gestures cannot accumulate drift.
// The machine structurally forbids overlapping sessions: Begin on a
// non-idle controller is an error.
package gesture

import (
	"errors"
	"fmt"
	"math"

	"posterforge/internal/document"
	"posterforge/internal/domain"
	"posterforge/internal/geometry"
)

// State is the controller's position in the gesture lifecycle.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
	Rotating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Rotating:
		return "rotating"
	}
	return "unknown"
}

// ErrBusy is returned when a gesture begins while another is active.
var ErrBusy = errors.New("gesture: session already active")

// snapshot is everything captured at pointer-down. It is never mutated.
type snapshot struct {
	poster       domain.Poster
	id           string
	isDecoration bool

	bounds       geometry.Bounds // document space
	parentOrigin domain.Point
	parentSize   domain.Size
	canvas       domain.Size

	constraints domain.Constraints
	anchor      *domain.Anchor
	decoration  domain.Decoration

	angle        float64
	startPointer domain.Point // screen space, rotation only

	targets []geometry.Bounds
}

// Controller owns at most one gesture session. Zoom is the current canvas
// scale; pointer deltas arrive in screen pixels and are divided by it
// before touching document geometry. Threshold is in document pixels.
type Controller struct {
	Zoom      float64
	Threshold float64

	state  State
	start  snapshot
	guides []geometry.GuideLine
}

// NewController returns an idle controller at the given zoom.
func NewController(zoom float64) *Controller {
	if zoom <= 0 {
		zoom = 1
	}
	return &Controller{Zoom: zoom, Threshold: geometry.SnapThresholdPx}
}

// State reports the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Guides returns the alignment guides from the most recent move, nil when
// nothing is snapped. They are transient: recomputed per move, cleared by End.
func (c *Controller) Guides() []geometry.GuideLine { return c.guides }

// End discards the session and clears guides. It is mandatory cleanup at
// pointer-up; calling it while idle is a no-op.
func (c *Controller) End() {
	c.state = Idle
	c.start = snapshot{}
	c.guides = nil
}

func (c *Controller) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

func (c *Controller) threshold() float64 {
	if c.Threshold <= 0 {
		return geometry.SnapThresholdPx
	}
	return c.Threshold
}

// capture builds the immutable pointer-down snapshot for an element.
func (c *Controller) capture(p domain.Poster, id string) (snapshot, error) {
	r := document.NewResolver(&p)
	snap := snapshot{poster: p, id: id, canvas: p.Canvas}

	if dec := document.FindDecoration(&p, id); dec != nil {
		snap.isDecoration = true
		snap.decoration = dec.Clone()
		snap.bounds = r.DecorationBounds(*dec)
		snap.parentSize = p.Canvas
		snap.angle = dec.Angle
		if dec.Anchor != nil {
			a := *dec.Anchor
			snap.anchor = &a
		}
	} else if box := document.FindBox(&p, id); box != nil {
		snap.bounds = r.BoundsOf(id)
		pb := geometry.BoundsAt(0, 0, p.Canvas.Width, p.Canvas.Height)
		if parentID, _ := document.ParentOf(&p, id); parentID != "" {
			pb = r.BoundsOf(parentID)
		}
		snap.parentOrigin = domain.Point{X: pb.Left, Y: pb.Top}
		snap.parentSize = pb.Size()
		if box.Constraints != nil {
			snap.constraints = *box.Constraints
		}
		if box.Anchor != nil {
			a := *box.Anchor
			snap.anchor = &a
		}
	} else {
		return snapshot{}, fmt.Errorf("gesture: element %q not found", id)
	}

	snap.targets = r.SnapTargets(id)
	return snap, nil
}

// BeginDrag starts a drag session for a box or decoration.
func (c *Controller) BeginDrag(p domain.Poster, id string) error {
	if c.state != Idle {
		return ErrBusy
	}
	snap, err := c.capture(p, id)
	if err != nil {
		return err
	}
	c.start = snap
	c.state = Dragging
	return nil
}

// BeginResize starts a resize session (bottom-right handle).
func (c *Controller) BeginResize(p domain.Poster, id string) error {
	if c.state != Idle {
		return ErrBusy
	}
	snap, err := c.capture(p, id)
	if err != nil {
		return err
	}
	c.start = snap
	c.state = Resizing
	return nil
}

// BeginRotate starts a rotate session for a decoration. pointer is the
// pointer-down position in screen space.
func (c *Controller) BeginRotate(p domain.Poster, id string, pointer domain.Point) error {
	if c.state != Idle {
		return ErrBusy
	}
	snap, err := c.capture(p, id)
	if err != nil {
		return err
	}
	if !snap.isDecoration {
		return fmt.Errorf("gesture: element %q is not rotatable", id)
	}
	snap.startPointer = pointer
	c.start = snap
	c.state = Rotating
	return nil
}

// RotateTo recomputes the decoration angle from the live pointer position
// (screen space). The angle delta is measured around the element's
// screen-space center.
func (c *Controller) RotateTo(pointer domain.Point) (domain.Poster, error) {
	if c.state != Rotating {
		return domain.Poster{}, fmt.Errorf("gesture: rotate in state %s", c.state)
	}
	z := c.zoom()
	center := domain.Point{X: c.start.bounds.CenterX * z, Y: c.start.bounds.CenterY * z}
	from := math.Atan2(c.start.startPointer.Y-center.Y, c.start.startPointer.X-center.X)
	to := math.Atan2(pointer.Y-center.Y, pointer.X-center.X)
	angle := c.start.angle + (to-from)*180/math.Pi

	next, _ := document.ApplyDecorationPatch(c.start.poster, c.start.id, document.DecorationPatch{Angle: &angle})
	return next, nil
}
