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
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"posterforge/internal/document"
	"posterforge/internal/domain"
	"posterforge/internal/storage"
)

// SVGOptions controls SVG export behavior. The coordinate system matches the
// document model (pixels); a viewBox is provided so viewers scale freely.
type SVGOptions struct {
	DrawOutlines bool
	Background   domain.Color
}

// ExportPosterSVG writes the poster as a standalone SVG document at outPath.
// Relative paths land under the project's exports folder.
func ExportPosterSVG(ph *storage.PosterHandle, outPath string, opt SVGOptions) error {
	if ph == nil {
		return fmt.Errorf("poster handle is nil")
	}
	p := ph.Poster
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return fmt.Errorf("poster canvas has no size")
	}
	bg := opt.Background
	if bg == (domain.Color{}) {
		bg = domain.Color{R: 255, G: 255, B: 255, A: 255}
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n",
		p.Canvas.Width, p.Canvas.Height, p.Canvas.Width, p.Canvas.Height)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", p.Canvas.Width, p.Canvas.Height, svgColor(bg))

	res := document.NewResolver(&p)

	document.Walk(&p, func(s domain.Section, parentID string) bool {
		b := res.BoundsOf(s.ID())
		switch v := s.(type) {
		case *domain.LayoutBox:
			fill := "none"
			if c, ok := parseHexColor(v.Background); ok {
				fill = svgColor(c)
			}
			stroke := "none"
			if opt.DrawOutlines {
				stroke = "#000000"
			}
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1\"/>\n",
				b.Left, b.Top, b.Width, b.Height, fill, stroke)
		case *domain.TextSection:
			writeSpansSVG(wf, b.Left, b.Top, v.Spans)
		case *domain.ImageSection:
			wf("  <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"%s\"/>\n",
				b.Left, b.Top, b.Width, b.Height, xmlEscape(v.Source))
		}
		return true
	})

	for _, d := range p.Decorations {
		b := res.DecorationBounds(d)
		transform := ""
		if d.Angle != 0 {
			transform = fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", d.Angle, b.CenterX, b.CenterY)
		}
		wf("  <g%s>\n", transform)
		wf("    <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"%s\"/>\n",
			b.Left, b.Top, b.Width, b.Height, xmlEscape(d.Image))
		if d.Stroke != nil {
			wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
				b.Left, b.Top, b.Width, b.Height, svgColor(d.Stroke.Color), d.Stroke.Width)
		}
		wf("  </g>\n")
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func writeSpansSVG(wf func(string, ...any), x, y float64, spans []domain.Span) {
	cy := y
	for _, sp := range spans {
		size := sp.Style.FontSize
		if size <= 0 {
			size = 12
		}
		col := "#000000"
		if c, ok := parseHexColor(sp.Style.Color); ok {
			col = svgColor(c)
		}
		var attrs strings.Builder
		if sp.Style.Bold {
			attrs.WriteString(" font-weight=\"bold\"")
		}
		if sp.Style.Italic {
			attrs.WriteString(" font-style=\"italic\"")
		}
		if sp.Style.Underline {
			attrs.WriteString(" text-decoration=\"underline\"")
		}
		family := sp.Style.FontFamily
		if family == "" {
			family = "Helvetica"
		}
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"%s\" font-size=\"%g\" fill=\"%s\"%s>%s</text>\n",
			x, cy+size, xmlEscape(family), size, col, attrs.String(), xmlEscape(sp.Text))
		cy += size * 1.2
	}
}

func svgColor(c domain.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
