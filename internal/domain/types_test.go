/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func samplePoster() Poster {
	return Poster{
		ID:     "p1",
		Name:   "sample",
		Canvas: Size{Width: 800, Height: 600},
		Sections: SectionList{
			&LayoutBox{
				BoxID:       "box1",
				Constraints: &Constraints{Left: "10px", Top: "10px", Width: "200px", Height: "100px"},
				Sections: SectionList{
					&TextSection{TextID: "txt1", Spans: []Span{{Text: "Hello", Style: SpanStyle{Bold: true}}}},
					&ImageSection{ImageID: "img1", Source: "assets/logo.png", Fit: "contain"},
				},
			},
			&LayoutBox{
				BoxID:  "box2",
				Anchor: &Anchor{ElementID: "box1", Origin: OriginBottomLeft, Mode: AttachOutside, Offset: Offset{Y: "4px"}},
			},
		},
		Decorations: []Decoration{
			{ID: "dec1", Image: "assets/star.png", AspectRatio: 1, WidthPercent: 10,
				Position: &DecorationPosition{XPercent: 50, YPx: 20}, Angle: 15},
		},
	}
}

func TestSectionListJSONRoundTrip(t *testing.T) {
	p := samplePoster()
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"type":"layout_box"`) || !strings.Contains(string(b), `"type":"text"`) {
		t.Fatalf("expected type discriminators in JSON, got: %s", b)
	}
	var back Poster
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Sections) != 2 {
		t.Fatalf("expected 2 root sections, got %d", len(back.Sections))
	}
	box, ok := back.Sections[0].(*LayoutBox)
	if !ok {
		t.Fatalf("expected first section to decode as *LayoutBox, got %T", back.Sections[0])
	}
	if len(box.Sections) != 2 {
		t.Fatalf("expected 2 nested sections, got %d", len(box.Sections))
	}
	if _, ok := box.Sections[0].(*TextSection); !ok {
		t.Fatalf("expected nested text section, got %T", box.Sections[0])
	}
	if _, ok := box.Sections[1].(*ImageSection); !ok {
		t.Fatalf("expected nested image section, got %T", box.Sections[1])
	}
	anchored, ok := back.Sections[1].(*LayoutBox)
	if !ok || anchored.Anchor == nil {
		t.Fatalf("expected anchored box to survive round trip")
	}
	if anchored.Anchor.Origin != OriginBottomLeft || anchored.Anchor.Mode != AttachOutside {
		t.Fatalf("anchor fields lost: %+v", anchored.Anchor)
	}
}

func TestSectionListUnknownTypeRejected(t *testing.T) {
	var l SectionList
	err := json.Unmarshal([]byte(`[{"type":"video","id":"v1"}]`), &l)
	if err == nil {
		t.Fatalf("expected error for unknown section type")
	}
}

func TestPosterCloneIsIndependent(t *testing.T) {
	p := samplePoster()
	c := p.Clone()

	box := c.Sections[0].(*LayoutBox)
	box.Constraints.Left = "999px"
	box.Sections[0].(*TextSection).Spans[0].Text = "changed"
	c.Decorations[0].Position.XPercent = 1

	orig := p.Sections[0].(*LayoutBox)
	if orig.Constraints.Left != "10px" {
		t.Fatalf("clone mutation leaked into original constraints")
	}
	if orig.Sections[0].(*TextSection).Spans[0].Text != "Hello" {
		t.Fatalf("clone mutation leaked into original spans")
	}
	if p.Decorations[0].Position.XPercent != 50 {
		t.Fatalf("clone mutation leaked into original decorations")
	}
}

func TestConstraintsIsZero(t *testing.T) {
	if !(Constraints{}).IsZero() {
		t.Fatalf("empty constraints should be zero")
	}
	if (Constraints{Left: "1px"}).IsZero() {
		t.Fatalf("non-empty constraints should not be zero")
	}
}
