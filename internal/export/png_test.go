/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"posterforge/internal/domain"
	"posterforge/internal/storage"
)

func exportPoster() domain.Poster {
	return domain.Poster{
		ID:     "p1",
		Name:   "Export Fixture",
		Canvas: domain.Size{Width: 200, Height: 100},
		Sections: domain.SectionList{
			&domain.LayoutBox{
				BoxID:       "banner",
				Background:  "#ff0000",
				Constraints: &domain.Constraints{Left: "20px", Top: "10px", Width: "100px", Height: "40px"},
				Sections: domain.SectionList{
					&domain.TextSection{TextID: "headline", Spans: []domain.Span{
						{Text: "Hello", Style: domain.SpanStyle{Bold: true, FontSize: 14}},
					}},
				},
			},
		},
		Decorations: []domain.Decoration{
			{
				ID:           "blob",
				Image:        "assets/missing.png",
				AspectRatio:  1,
				WidthPercent: 10,
				Position:     &domain.DecorationPosition{XPercent: 80, YPx: 70},
			},
		},
	}
}

func exportHandle(t *testing.T) *storage.PosterHandle {
	t.Helper()
	ph, err := storage.InitProject(t.TempDir(), exportPoster())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	return ph
}

func TestRenderPosterFillsBoxBackground(t *testing.T) {
	ph := exportHandle(t)

	img, err := RenderPoster(ph, PNGOptions{})
	if err != nil {
		t.Fatalf("RenderPoster error: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("image size = %dx%d, want 200x100", b.Dx(), b.Dy())
	}

	// Inside the banner box: red fill.
	r, g, bb, _ := img.At(70, 30).RGBA()
	if r>>8 != 255 || g>>8 != 0 || bb>>8 != 0 {
		t.Fatalf("box interior = (%d,%d,%d), want red", r>>8, g>>8, bb>>8)
	}
	// Outside all boxes: white canvas.
	r, g, bb, _ = img.At(5, 90).RGBA()
	if r>>8 != 255 || g>>8 != 255 || bb>>8 != 255 {
		t.Fatalf("canvas = (%d,%d,%d), want white", r>>8, g>>8, bb>>8)
	}
}

func TestRenderPosterScale(t *testing.T) {
	ph := exportHandle(t)

	img, err := RenderPoster(ph, PNGOptions{Scale: 2})
	if err != nil {
		t.Fatalf("RenderPoster error: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("scaled size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
	// Box interior scales with the canvas.
	r, _, _, _ := img.At(140, 60).RGBA()
	if r>>8 != 255 {
		t.Fatalf("scaled box interior should stay red")
	}
}

func TestExportPosterPNGWritesUnderExports(t *testing.T) {
	ph := exportHandle(t)

	if err := ExportPosterPNG(ph, "out.png", PNGOptions{}); err != nil {
		t.Fatalf("ExportPosterPNG error: %v", err)
	}
	path := filepath.Join(ph.Root, "exports", "out.png")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("exported file is not a valid PNG: %v", err)
	}
}

func TestRenderThumbnailKeepsAspect(t *testing.T) {
	ph := exportHandle(t)

	data, err := RenderThumbnail(ph, 50)
	if err != nil {
		t.Fatalf("RenderThumbnail error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 50 || b.Dy() != 25 {
		t.Fatalf("thumbnail = %dx%d, want 50x25", b.Dx(), b.Dy())
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Color
		ok   bool
	}{
		{"#ff0000", domain.Color{R: 255, A: 255}, true},
		{"#0f0", domain.Color{G: 255, A: 255}, true},
		{"", domain.Color{}, false},
		{"red", domain.Color{}, false},
		{"#12345", domain.Color{}, false},
	}
	for _, c := range cases {
		got, ok := parseHexColor(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("parseHexColor(%q) = %+v,%v want %+v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
