/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"fmt"
)

// SectionList serializes the Section sum type with a "type" discriminator
// per element. Unknown discriminators are a decode error rather than being
// skipped, so a manifest written by a newer version fails loudly.
type SectionList []Section

func (l SectionList) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(l))
	for _, s := range l {
		var (
			b   []byte
			err error
		)
		switch v := s.(type) {
		case *LayoutBox:
			b, err = json.Marshal(struct {
				Type string `json:"type"`
				*LayoutBox
			}{SectionTypeLayoutBox, v})
		case *TextSection:
			b, err = json.Marshal(struct {
				Type string `json:"type"`
				*TextSection
			}{SectionTypeText, v})
		case *ImageSection:
			b, err = json.Marshal(struct {
				Type string `json:"type"`
				*ImageSection
			}{SectionTypeImage, v})
		default:
			err = fmt.Errorf("unknown section variant %T", s)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

func (l *SectionList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	res := make(SectionList, 0, len(raw))
	for i, r := range raw {
		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		switch probe.Type {
		case SectionTypeLayoutBox:
			var b LayoutBox
			if err := json.Unmarshal(r, &b); err != nil {
				return fmt.Errorf("section %d (layout_box): %w", i, err)
			}
			res = append(res, &b)
		case SectionTypeText:
			var t TextSection
			if err := json.Unmarshal(r, &t); err != nil {
				return fmt.Errorf("section %d (text): %w", i, err)
			}
			res = append(res, &t)
		case SectionTypeImage:
			var img ImageSection
			if err := json.Unmarshal(r, &img); err != nil {
				return fmt.Errorf("section %d (image): %w", i, err)
			}
			res = append(res, &img)
		default:
			return fmt.Errorf("section %d: unknown type %q", i, probe.Type)
		}
	}
	*l = res
	return nil
}
