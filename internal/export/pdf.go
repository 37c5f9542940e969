/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"posterforge/internal/document"
	"posterforge/internal/domain"
	"posterforge/internal/storage"
)

// PDFOptions controls PDF export behavior.
// The document maps 1:1 from canvas pixels to PDF points. Vector text uses
// the built-in Helvetica family for portability; font embedding can be added
// with TTFs later.
type PDFOptions struct {
	DrawOutlines bool
	OutlineColor domain.Color
}

// ExportPosterPDF writes the poster to a single-page PDF at outPath.
// Relative paths land under the project's exports folder.
func ExportPosterPDF(ph *storage.PosterHandle, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("poster handle is nil")
	}
	p := ph.Poster
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return fmt.Errorf("poster canvas has no size")
	}

	outline := opt.OutlineColor
	if outline == (domain.Color{}) {
		outline = domain.Color{R: 0, G: 0, B: 0, A: 255}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: p.Canvas.Width, Ht: p.Canvas.Height},
		OrientationStr: "",
	})
	pdf.SetTitle(p.Name, true)
	pdf.SetAuthor(p.Metadata.Author, true)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: p.Canvas.Width, Ht: p.Canvas.Height})

	res := document.NewResolver(&p)

	document.Walk(&p, func(s domain.Section, parentID string) bool {
		b := res.BoundsOf(s.ID())
		switch v := s.(type) {
		case *domain.LayoutBox:
			if c, ok := parseHexColor(v.Background); ok {
				setFillColor(pdf, c)
				pdf.Rect(b.Left, b.Top, b.Width, b.Height, "F")
			}
			if opt.DrawOutlines {
				setDrawColor(pdf, outline)
				pdf.SetLineWidth(1)
				pdf.Rect(b.Left, b.Top, b.Width, b.Height, "D")
			}
		case *domain.TextSection:
			drawSpansPDF(pdf, b.Left, b.Top, b.Width, v.Spans)
		case *domain.ImageSection:
			placeImagePDF(pdf, ph.Root, v.Source, b.Left, b.Top, b.Width, b.Height)
		}
		return true
	})

	for _, d := range p.Decorations {
		b := res.DecorationBounds(d)
		if d.Angle != 0 {
			pdf.TransformBegin()
			pdf.TransformRotate(-d.Angle, b.CenterX, b.CenterY)
		}
		if !placeImagePDF(pdf, ph.Root, d.Image, b.Left, b.Top, b.Width, b.Height) {
			setFillColor(pdf, domain.Color{R: 230, G: 230, B: 230, A: 255})
			pdf.Rect(b.Left, b.Top, b.Width, b.Height, "F")
		}
		if d.Stroke != nil {
			setDrawColor(pdf, d.Stroke.Color)
			pdf.SetLineWidth(d.Stroke.Width)
			pdf.Rect(b.Left, b.Top, b.Width, b.Height, "D")
		}
		if d.Angle != 0 {
			pdf.TransformEnd()
		}
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawSpansPDF lays out span text line by line inside the given width.
func drawSpansPDF(pdf *gofpdf.Fpdf, x, y, width float64, spans []domain.Span) {
	cx := x
	cy := y
	for _, sp := range spans {
		size := sp.Style.FontSize
		if size <= 0 {
			size = 12
		}
		style := ""
		if sp.Style.Bold {
			style += "B"
		}
		if sp.Style.Italic {
			style += "I"
		}
		if sp.Style.Underline {
			style += "U"
		}
		pdf.SetFont("Helvetica", style, size)
		if c, ok := parseHexColor(sp.Style.Color); ok {
			pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		adv := pdf.GetStringWidth(sp.Text)
		if cx+adv > x+width && cx > x {
			cx = x
			cy += size * 1.2
		}
		pdf.Text(cx, cy+size, sp.Text)
		cx += adv
	}
}

// placeImagePDF embeds an asset image at the given rect. Returns false when
// the file does not exist or has an unsupported extension.
func placeImagePDF(pdf *gofpdf.Fpdf, root, rel string, x, y, w, h float64) bool {
	path := filepath.Join(root, rel)
	if _, err := os.Stat(path); err != nil {
		return false
	}
	var tp string
	switch filepath.Ext(path) {
	case ".png":
		tp = "PNG"
	case ".jpg", ".jpeg":
		tp = "JPG"
	default:
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: tp, ReadDpi: false}
	pdf.ImageOptions(path, x, y, w, h, false, opts, 0, "")
	return true
}

func setDrawColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
