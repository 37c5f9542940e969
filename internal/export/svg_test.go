/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"posterforge/internal/domain"
)

func TestExportPosterSVGContent(t *testing.T) {
	ph := exportHandle(t)
	ph.Poster.Decorations[0].Angle = 30

	if err := ExportPosterSVG(ph, "poster.svg", SVGOptions{}); err != nil {
		t.Fatalf("ExportPosterSVG error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(ph.Root, "exports", "poster.svg"))
	if err != nil {
		t.Fatalf("exported svg missing: %v", err)
	}
	s := string(b)

	if !strings.Contains(s, `viewBox="0 0 200 100"`) {
		t.Fatalf("viewBox missing or wrong: %s", s)
	}
	if !strings.Contains(s, `fill="#ff0000"`) {
		t.Fatalf("box background missing")
	}
	if !strings.Contains(s, ">Hello</text>") {
		t.Fatalf("span text missing")
	}
	if !strings.Contains(s, `font-weight="bold"`) {
		t.Fatalf("bold style missing")
	}
	if !strings.Contains(s, "rotate(30") {
		t.Fatalf("decoration rotation missing")
	}
}

func TestExportPosterSVGEscapesText(t *testing.T) {
	ph := exportHandle(t)
	ph.Poster.Sections = domain.SectionList{
		&domain.LayoutBox{
			BoxID:       "b",
			Constraints: &domain.Constraints{Left: "0px", Top: "0px", Width: "100px", Height: "50px"},
			Sections: domain.SectionList{
				&domain.TextSection{TextID: "t", Spans: []domain.Span{
					{Text: "a < b & c"},
				}},
			},
		},
	}

	if err := ExportPosterSVG(ph, "esc.svg", SVGOptions{}); err != nil {
		t.Fatalf("ExportPosterSVG error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(ph.Root, "exports", "esc.svg"))
	if err != nil {
		t.Fatalf("exported svg missing: %v", err)
	}
	if !strings.Contains(string(b), "a &lt; b &amp; c") {
		t.Fatalf("text not escaped: %s", b)
	}
}
