/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package richtext

import "posterforge/internal/domain"

// Measurer computes the rendered extent of a styled run. The geometry core
// only ever calls through this interface; the UI layer injects a real
// glyph-metrics implementation, tests and exporters use FixedMetrics so the
// same input always measures the same.
type Measurer interface {
	Measure(spans []domain.Span, maxWidth float64) domain.Size
}

// DefaultFontSize is assumed when a span style does not set one.
const DefaultFontSize = 16

// FixedMetrics is a deterministic Measurer: every glyph advances by
// AdvanceEm×size and every line is LineEm×size tall. Crude, but stable and
// environment-independent.
type FixedMetrics struct {
	AdvanceEm float64 // per-glyph advance as a fraction of font size
	LineEm    float64 // line height as a fraction of font size
}

func (m FixedMetrics) Measure(spans []domain.Span, maxWidth float64) domain.Size {
	advance := m.AdvanceEm
	if advance <= 0 {
		advance = 0.6
	}
	lineEm := m.LineEm
	if lineEm <= 0 {
		lineEm = 1.2
	}

	var lineWidth, maxLine, lineHeight, height float64
	flush := func() {
		if lineWidth > maxLine {
			maxLine = lineWidth
		}
		if lineHeight == 0 {
			lineHeight = DefaultFontSize * lineEm
		}
		height += lineHeight
		lineWidth, lineHeight = 0, 0
	}

	for _, sp := range spans {
		size := sp.Style.FontSize
		if size <= 0 {
			size = DefaultFontSize
		}
		glyph := size * advance
		if size*lineEm > lineHeight {
			lineHeight = size * lineEm
		}
		for _, r := range sp.Text {
			if r == '\n' {
				flush()
				continue
			}
			if maxWidth > 0 && lineWidth+glyph > maxWidth && lineWidth > 0 {
				flush()
			}
			lineWidth += glyph
			if size*lineEm > lineHeight {
				lineHeight = size * lineEm
			}
		}
	}
	if lineWidth > 0 || height == 0 {
		flush()
	}
	return domain.Size{Width: maxLine, Height: height}
}
