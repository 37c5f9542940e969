//go:build fyne && cgo

/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based editor widget. They are gated behind
// the "fyne" build tag so CI (which is headless) does not need Fyne or a
// display. To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"

	appconfig "posterforge/internal/config"
	"posterforge/internal/domain"
)

func uiPoster() domain.Poster {
	return domain.Poster{
		ID:     "p1",
		Name:   "UI Fixture",
		Canvas: domain.Size{Width: 400, Height: 300},
		Sections: domain.SectionList{
			&domain.LayoutBox{
				BoxID:       "a",
				Constraints: &domain.Constraints{Left: "50px", Top: "40px", Width: "100px", Height: "80px"},
			},
		},
	}
}

func TestEditorMinSizeTracksZoom(t *testing.T) {
	ed := newEditor(appconfig.Defaults())
	p := uiPoster()
	ed.SetPoster(&p)

	if got := ed.MinSize(); got.Width != 400 || got.Height != 300 {
		t.Fatalf("MinSize at zoom 1 = %v, want 400x300", got)
	}
	ed.SetZoom(2)
	if got := ed.MinSize(); got.Width != 800 || got.Height != 600 {
		t.Fatalf("MinSize at zoom 2 = %v, want 800x600", got)
	}
}

func TestEditorHitTest(t *testing.T) {
	ed := newEditor(appconfig.Defaults())
	p := uiPoster()
	ed.SetPoster(&p)

	if id := ed.hit(100, 80); id != "a" {
		t.Fatalf("hit inside box = %q, want a", id)
	}
	if id := ed.hit(10, 10); id != "" {
		t.Fatalf("hit on empty canvas = %q, want none", id)
	}

	ed.SetZoom(2)
	if id := ed.hit(200, 160); id != "a" {
		t.Fatalf("zoomed hit = %q, want a", id)
	}
}

func TestEditorDragMovesSelection(t *testing.T) {
	ed := newEditor(appconfig.Defaults())
	p := uiPoster()
	ed.SetPoster(&p)
	ed.selected = "a"

	ev := &fyne.DragEvent{}
	ev.Position = fyne.NewPos(100, 80)
	ev.Dragged = fyne.Delta{DX: 30, DY: 20}
	ed.Dragged(ev)
	ed.DragEnd()

	box := p.Sections[0].(*domain.LayoutBox)
	if box.Constraints.Left != "80px" || box.Constraints.Top != "60px" {
		t.Fatalf("constraints after drag = %+v", box.Constraints)
	}
}
