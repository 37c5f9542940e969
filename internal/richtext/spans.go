/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package richtext edits styled span sequences. A text section holds one
// logical run as ordered spans; applying a style to a selection splits the
// overlapping spans, patches the selected pieces and re-merges neighbors so
// the sequence stays canonical (no two adjacent spans share a style).
package richtext

import (
	"strings"

	"posterforge/internal/domain"
)

// Selection is a character-offset range [Start, End) over the concatenated
// span text, counted in runes.
type Selection struct {
	Start int
	End   int
}

// StylePatch is a partial style update. Nil fields leave the original span
// value untouched; set fields win.
type StylePatch struct {
	FontFamily *string
	FontSize   *float64
	Bold       *bool
	Italic     *bool
	Underline  *bool
	Color      *string
}

func (p StylePatch) applyTo(s domain.SpanStyle) domain.SpanStyle {
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.Bold != nil {
		s.Bold = *p.Bold
	}
	if p.Italic != nil {
		s.Italic = *p.Italic
	}
	if p.Underline != nil {
		s.Underline = *p.Underline
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	return s
}

// Bold is a convenience constructor for the most common patch.
func Bold(v bool) StylePatch { return StylePatch{Bold: &v} }

// Content returns the full text of the run.
func Content(spans []domain.Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Length returns the rune length of the run.
func Length(spans []domain.Span) int {
	n := 0
	for _, s := range spans {
		n += len([]rune(s.Text))
	}
	return n
}

// ApplyStyleToSelection applies patch to exactly the selected substring.
// Spans fully outside the selection are kept verbatim; an overlapping span
// is split into up to three pieces, where only the selected piece takes the
// patch. Empty pieces are omitted, never emitted. The rebuilt sequence is
// merge-normalized before returning. An empty selection is a no-op.
func ApplyStyleToSelection(spans []domain.Span, patch StylePatch, sel Selection) []domain.Span {
	if sel.Start >= sel.End {
		return spans
	}

	out := make([]domain.Span, 0, len(spans)+2)
	offset := 0
	for _, sp := range spans {
		runes := []rune(sp.Text)
		n := len(runes)
		spanStart, spanEnd := offset, offset+n
		offset = spanEnd

		if n == 0 || spanEnd <= sel.Start || spanStart >= sel.End {
			out = append(out, sp)
			continue
		}

		cutStart := sel.Start - spanStart
		if cutStart < 0 {
			cutStart = 0
		}
		cutEnd := sel.End - spanStart
		if cutEnd > n {
			cutEnd = n
		}

		if cutStart > 0 {
			out = append(out, domain.Span{Text: string(runes[:cutStart]), Style: sp.Style})
		}
		out = append(out, domain.Span{Text: string(runes[cutStart:cutEnd]), Style: patch.applyTo(sp.Style)})
		if cutEnd < n {
			out = append(out, domain.Span{Text: string(runes[cutEnd:]), Style: sp.Style})
		}
	}
	return MergeAdjacent(out)
}

// MergeAdjacent collapses consecutive spans with identical styles, left to
// right, until no adjacent pair matches. SpanStyle is a comparable value
// type, so identity is plain equality.
func MergeAdjacent(spans []domain.Span) []domain.Span {
	out := make([]domain.Span, 0, len(spans))
	for _, sp := range spans {
		if n := len(out); n > 0 && out[n-1].Style == sp.Style {
			out[n-1].Text += sp.Text
			continue
		}
		out = append(out, sp)
	}
	return out
}
