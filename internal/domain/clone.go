/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Deep-copy helpers. Document edits are modeled as whole-document
// transitions: clone, mutate the clone, publish the clone. Nothing in this
// package mutates shared nodes in place.

// Clone returns a deep copy of the poster.
func (p Poster) Clone() Poster {
	out := p
	out.Sections = p.Sections.Clone()
	if p.Decorations != nil {
		out.Decorations = make([]Decoration, len(p.Decorations))
		for i, d := range p.Decorations {
			out.Decorations[i] = d.Clone()
		}
	}
	if p.Metadata.Tags != nil {
		out.Metadata.Tags = append([]string(nil), p.Metadata.Tags...)
	}
	return out
}

// Clone returns a deep copy of the section list.
func (l SectionList) Clone() SectionList {
	if l == nil {
		return nil
	}
	out := make(SectionList, len(l))
	for i, s := range l {
		out[i] = cloneSection(s)
	}
	return out
}

func cloneSection(s Section) Section {
	switch v := s.(type) {
	case *LayoutBox:
		c := v.Clone()
		return &c
	case *TextSection:
		c := v.Clone()
		return &c
	case *ImageSection:
		c := *v
		return &c
	}
	// The sum type is closed; reaching here means a variant was added
	// without updating this switch.
	panic("domain: unhandled section variant")
}

// Clone returns a deep copy of the box and its subtree.
func (b LayoutBox) Clone() LayoutBox {
	out := b
	if b.Constraints != nil {
		c := *b.Constraints
		out.Constraints = &c
	}
	if b.Anchor != nil {
		a := *b.Anchor
		out.Anchor = &a
	}
	out.Sections = b.Sections.Clone()
	return out
}

// Clone returns a deep copy of the text section.
func (t TextSection) Clone() TextSection {
	out := t
	if t.Spans != nil {
		out.Spans = append([]Span(nil), t.Spans...)
	}
	return out
}

// Clone returns a deep copy of the decoration.
func (d Decoration) Clone() Decoration {
	out := d
	if d.Position != nil {
		p := *d.Position
		out.Position = &p
	}
	if d.Anchor != nil {
		a := *d.Anchor
		out.Anchor = &a
	}
	if d.Stroke != nil {
		s := *d.Stroke
		out.Stroke = &s
	}
	if d.Shadow != nil {
		s := *d.Shadow
		out.Shadow = &s
	}
	return out
}
