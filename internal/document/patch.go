/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package document

// Whole-document transitions. Every edit clones the poster, mutates the
// clone at the addressed element and returns the clone; the input document
// is never touched. One id, one patch, one new document.

import "posterforge/internal/domain"

// BoxPatch is a partial update for a layout box. Nil fields are untouched.
type BoxPatch struct {
	Constraints *domain.Constraints
	Anchor      *domain.Anchor
	ClearAnchor bool
	LayoutMode  *domain.LayoutMode
	Background  *string
	GridColumn  *string
	GridRow     *string
	FlexGrow    *float64
	FlexShrink  *float64
}

// TextPatch replaces a text section's spans and/or alignment.
type TextPatch struct {
	Spans []domain.Span
	Align *string
}

// DecorationPatch is a partial update for a decoration.
type DecorationPatch struct {
	Position     *domain.DecorationPosition
	Anchor       *domain.Anchor
	AnchorOffset *domain.Offset
	ClearAnchor  bool
	Angle        *float64
	WidthPercent *float64
}

// ApplyBoxPatch returns a new poster with the patch applied to the box with
// the given id. The second result is false when the id is unknown, in which
// case the original poster is returned unchanged.
func ApplyBoxPatch(p domain.Poster, id string, patch BoxPatch) (domain.Poster, bool) {
	next := p.Clone()
	box := FindBox(&next, id)
	if box == nil {
		return p, false
	}
	if patch.Constraints != nil {
		c := *patch.Constraints
		box.Constraints = &c
	}
	if patch.ClearAnchor {
		box.Anchor = nil
	} else if patch.Anchor != nil {
		a := *patch.Anchor
		box.Anchor = &a
	}
	if patch.LayoutMode != nil {
		box.LayoutMode = *patch.LayoutMode
	}
	if patch.Background != nil {
		box.Background = *patch.Background
	}
	if patch.GridColumn != nil {
		box.GridColumn = *patch.GridColumn
	}
	if patch.GridRow != nil {
		box.GridRow = *patch.GridRow
	}
	if patch.FlexGrow != nil {
		box.FlexGrow = *patch.FlexGrow
	}
	if patch.FlexShrink != nil {
		box.FlexShrink = *patch.FlexShrink
	}
	return next, true
}

// ApplyTextPatch returns a new poster with the text section replaced.
func ApplyTextPatch(p domain.Poster, id string, patch TextPatch) (domain.Poster, bool) {
	next := p.Clone()
	sec, ok := FindByID(&next, id).(*domain.TextSection)
	if !ok {
		return p, false
	}
	if patch.Spans != nil {
		sec.Spans = append([]domain.Span(nil), patch.Spans...)
	}
	if patch.Align != nil {
		sec.Align = *patch.Align
	}
	return next, true
}

// ApplyDecorationPatch returns a new poster with the decoration updated.
func ApplyDecorationPatch(p domain.Poster, id string, patch DecorationPatch) (domain.Poster, bool) {
	next := p.Clone()
	dec := FindDecoration(&next, id)
	if dec == nil {
		return p, false
	}
	if patch.ClearAnchor {
		dec.Anchor = nil
	} else if patch.Anchor != nil {
		a := *patch.Anchor
		dec.Anchor = &a
	}
	if patch.AnchorOffset != nil && dec.Anchor != nil {
		dec.Anchor.Offset = *patch.AnchorOffset
	}
	if patch.Position != nil {
		pos := *patch.Position
		dec.Position = &pos
		dec.Anchor = nil // position and anchor are mutually exclusive
	}
	if patch.Angle != nil {
		dec.Angle = *patch.Angle
	}
	if patch.WidthPercent != nil {
		dec.WidthPercent = *patch.WidthPercent
	}
	return next, true
}
