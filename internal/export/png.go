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
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"posterforge/internal/document"
	"posterforge/internal/domain"
	"posterforge/internal/geometry"
	"posterforge/internal/storage"
)

// PNGOptions controls PNG export behavior.
// - Scale: output pixels per document pixel; <=0 defaults to 1.
// - Background: canvas fill; zero value defaults to white.
// - DrawOutlines: draw 1px borders around layout boxes.
type PNGOptions struct {
	Scale        float64
	Background   domain.Color
	DrawOutlines bool
}

// ExportPosterPNG renders the poster and writes it as a single PNG at
// outPath. Relative paths land under the project's exports folder.
func ExportPosterPNG(ph *storage.PosterHandle, outPath string, opt PNGOptions) error {
	if ph == nil {
		return fmt.Errorf("poster handle is nil")
	}
	img, err := RenderPoster(ph, opt)
	if err != nil {
		return err
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// RenderPoster rasterizes the poster's resolved geometry into an RGBA image.
func RenderPoster(ph *storage.PosterHandle, opt PNGOptions) (*image.RGBA, error) {
	p := ph.Poster
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return nil, fmt.Errorf("poster canvas has no size")
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	bg := opt.Background
	if bg == (domain.Color{}) {
		bg = domain.Color{R: 255, G: 255, B: 255, A: 255}
	}

	pixW := int(math.Round(p.Canvas.Width * scale))
	pixH := int(math.Round(p.Canvas.Height * scale))
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(bg)}, image.Point{}, draw.Src)

	res := document.NewResolver(&p)

	// Sections draw in document order, parents before children.
	document.Walk(&p, func(s domain.Section, parentID string) bool {
		b := res.BoundsOf(s.ID())
		r := pixRect(b, scale)
		switch v := s.(type) {
		case *domain.LayoutBox:
			if c, ok := parseHexColor(v.Background); ok {
				fillRect(img, r, toRGBA(c))
			}
			if opt.DrawOutlines {
				strokeRect(img, r, color.RGBA{0, 0, 0, 255})
			}
		case *domain.TextSection:
			drawSpans(img, r, v.Spans)
		case *domain.ImageSection:
			drawImageFit(img, r, filepath.Join(ph.Root, v.Source))
		}
		return true
	})

	for _, d := range p.Decorations {
		drawDecoration(img, ph.Root, res, d, scale)
	}
	return img, nil
}

// RenderThumbnail renders the poster and downscales it to the given pixel
// width, preserving aspect ratio. Result is PNG-encoded, ready for the
// preview cache.
func RenderThumbnail(ph *storage.PosterHandle, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("thumbnail width must be positive")
	}
	full, err := RenderPoster(ph, PNGOptions{})
	if err != nil {
		return nil, err
	}
	fb := full.Bounds()
	h := int(math.Round(float64(width) * float64(fb.Dy()) / float64(fb.Dx())))
	if h < 1 {
		h = 1
	}
	thumb := image.NewRGBA(image.Rect(0, 0, width, h))
	xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), full, fb, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func drawDecoration(img *image.RGBA, root string, res *document.Resolver, d domain.Decoration, scale float64) {
	b := res.DecorationBounds(d)
	if d.Angle != 0 {
		// Rasterize to the rotated axis-aligned extent around the same
		// center. Rotating pixels is left to the UI layer; export keeps the
		// occupied area faithful.
		rs := geometry.RotatedBounds(b.Width, b.Height, d.Angle)
		b = geometry.BoundsAt(b.CenterX-rs.Width/2, b.CenterY-rs.Height/2, rs.Width, rs.Height)
	}
	r := pixRect(b, scale)
	if !drawImageFit(img, r, filepath.Join(root, d.Image)) {
		// Missing asset: placeholder wash with an outline.
		fillRect(img, r, color.RGBA{230, 230, 230, 255})
		strokeRect(img, r, color.RGBA{120, 120, 120, 255})
	}
	if d.Stroke != nil {
		strokeRect(img, r, toRGBA(d.Stroke.Color))
	}
}

// drawImageFit loads an image asset from disk and scales it into r.
// Returns false when the asset cannot be loaded.
func drawImageFit(img *image.RGBA, r image.Rectangle, path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return false
	}
	xdraw.ApproxBiLinear.Scale(img, r, src, src.Bounds(), xdraw.Over, nil)
	return true
}

// drawSpans renders span text with a fixed bitmap face, wrapping on the box
// width. Ornamental typography is the UI's job; export keeps text legible.
func drawSpans(img *image.RGBA, r image.Rectangle, spans []domain.Span) {
	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil()
	x := fixed.I(r.Min.X)
	y := fixed.I(r.Min.Y + face.Metrics().Ascent.Ceil())
	maxX := fixed.I(r.Max.X)

	for _, sp := range spans {
		col := color.RGBA{0, 0, 0, 255}
		if c, ok := parseHexColor(sp.Style.Color); ok {
			col = toRGBA(c)
		}
		d := font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
		for _, word := range strings.SplitAfter(sp.Text, " ") {
			adv := d.MeasureString(word)
			if x+adv > maxX && x > fixed.I(r.Min.X) {
				x = fixed.I(r.Min.X)
				y += fixed.I(lineH)
			}
			if y.Ceil() > r.Max.Y {
				return
			}
			d.Dot = fixed.Point26_6{X: x, Y: y}
			d.DrawString(word)
			x += adv
		}
	}
}

func pixRect(b geometry.Bounds, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Round(b.Left*scale)),
		int(math.Round(b.Top*scale)),
		int(math.Round(b.Right*scale)),
		int(math.Round(b.Bottom*scale)),
	)
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// parseHexColor parses "#rgb" and "#rrggbb" notations.
func parseHexColor(s string) (domain.Color, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return domain.Color{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return domain.Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return domain.Color{}, false
	}
	return domain.Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, true
}

func strokeRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, col)
		img.SetRGBA(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, col)
		img.SetRGBA(r.Max.X-1, y, col)
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	draw.Draw(img, r, &image.Uniform{C: col}, image.Point{}, draw.Over)
}
