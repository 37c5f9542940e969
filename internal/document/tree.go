/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package document ties the poster tree to the geometry core: id lookup,
// whole-document patch transitions, full-tree bounds resolution and snap
// candidate collection.
package document

import "posterforge/internal/domain"

// Walk visits every section in the poster depth-first, parents before
// children. The visitor receives the section and the id of its parent box
// ("" for canvas roots). Returning false stops the walk.
func Walk(p *domain.Poster, visit func(s domain.Section, parentID string) bool) {
	var rec func(list domain.SectionList, parentID string) bool
	rec = func(list domain.SectionList, parentID string) bool {
		for _, s := range list {
			if !visit(s, parentID) {
				return false
			}
			if b, ok := s.(*domain.LayoutBox); ok {
				if !rec(b.Sections, b.BoxID) {
					return false
				}
			}
		}
		return true
	}
	rec(p.Sections, "")
}

// FindByID returns the section with the given id, nil when absent.
func FindByID(p *domain.Poster, id string) domain.Section {
	var found domain.Section
	Walk(p, func(s domain.Section, _ string) bool {
		if s.ID() == id {
			found = s
			return false
		}
		return true
	})
	return found
}

// FindBox returns the layout box with the given id, nil when the id is
// absent or names a non-box section.
func FindBox(p *domain.Poster, id string) *domain.LayoutBox {
	if b, ok := FindByID(p, id).(*domain.LayoutBox); ok {
		return b
	}
	return nil
}

// FindDecoration returns the decoration with the given id, nil when absent.
func FindDecoration(p *domain.Poster, id string) *domain.Decoration {
	for i := range p.Decorations {
		if p.Decorations[i].ID == id {
			return &p.Decorations[i]
		}
	}
	return nil
}

// ParentOf returns the id of the box containing the given section, "" when
// the section is a canvas root, and false when the id is unknown.
func ParentOf(p *domain.Poster, id string) (string, bool) {
	var parent string
	found := false
	Walk(p, func(s domain.Section, parentID string) bool {
		if s.ID() == id {
			parent, found = parentID, true
			return false
		}
		return true
	})
	return parent, found
}

// SiblingsOf returns the sections sharing a parent with id, excluding the
// element itself. Used to build snap candidate sets.
func SiblingsOf(p *domain.Poster, id string) []domain.Section {
	parentID, ok := ParentOf(p, id)
	if !ok {
		return nil
	}
	list := p.Sections
	if parentID != "" {
		box := FindBox(p, parentID)
		if box == nil {
			return nil
		}
		list = box.Sections
	}
	out := make([]domain.Section, 0, len(list))
	for _, s := range list {
		if s.ID() != id {
			out = append(out, s)
		}
	}
	return out
}
