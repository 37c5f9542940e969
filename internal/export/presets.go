/*
 * Copyright (c) 2026 PosterForge contributors.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"posterforge/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetWeb favors screen formats at 1:1 scale.
	PresetWeb PresetName = "web"
	// PresetPrint favors PDF plus a high-resolution raster.
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - If OutDir is empty or relative, outputs land under
//     <project>/exports/<preset>/.
//   - Files are named <poster-id>.(pdf|png|svg) in per-format subfolders.
type BatchOptions struct {
	Preset       PresetName
	Formats      []string // allowed: pdf, png, svg; empty means preset defaults
	Scale        float64  // when > 0 overrides the preset's raster scale
	DrawOutlines *bool    // when set, overrides the preset's default
	OutDir       string
}

// BatchExport runs exports according to the given preset.
func BatchExport(ph *storage.PosterHandle, opt BatchOptions) error {
	if ph == nil {
		return fmt.Errorf("poster handle is nil")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(ph.Root, "exports", baseOut)
	}

	scale := presetScale(opt.Preset)
	if opt.Scale > 0 {
		scale = opt.Scale
	}
	outlines := presetDrawOutlines(opt.Preset)
	if opt.DrawOutlines != nil {
		outlines = *opt.DrawOutlines
	}

	name := ph.Poster.ID
	if name == "" {
		name = "poster"
	}

	for _, f := range formats {
		switch f {
		case "pdf":
			out := filepath.Join(baseOut, "pdf", name+".pdf")
			if err := ExportPosterPDF(ph, out, PDFOptions{DrawOutlines: outlines}); err != nil {
				return fmt.Errorf("pdf export: %w", err)
			}
		case "png":
			out := filepath.Join(baseOut, "png", name+".png")
			if err := ExportPosterPNG(ph, out, PNGOptions{Scale: scale, DrawOutlines: outlines}); err != nil {
				return fmt.Errorf("png export: %w", err)
			}
		case "svg":
			out := filepath.Join(baseOut, "svg", name+".svg")
			if err := ExportPosterSVG(ph, out, SVGOptions{DrawOutlines: outlines}); err != nil {
				return fmt.Errorf("svg export: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

func presetScale(p PresetName) float64 {
	if p == PresetPrint {
		// ~300dpi from a 96dpi document
		return 300.0 / 96.0
	}
	return 1
}

func presetDrawOutlines(p PresetName) bool {
	return p == PresetPrint
}
