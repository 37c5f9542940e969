/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for PosterForge documents.
// A poster is a tree of layout boxes containing text, image, and nested
// box sections, plus free-floating decorations. The model is plain data
// and serializes to a human-readable JSON manifest.

import "github.com/google/uuid"

// NewID returns a fresh element identifier.
func NewID() string { return uuid.NewString() }

// Size is a width/height pair in document pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a 2D position in document pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Constraints is a declarative, possibly partial placement specification.
// Each field is a dimension string ("12px", "50%", "" when unset).
// Percentages resolve against the parent width (horizontal fields) or the
// parent height (vertical fields).
type Constraints struct {
	Left    string `json:"left,omitempty"`
	Right   string `json:"right,omitempty"`
	Top     string `json:"top,omitempty"`
	Bottom  string `json:"bottom,omitempty"`
	Width   string `json:"width,omitempty"`
	Height  string `json:"height,omitempty"`
	CenterX string `json:"centerX,omitempty"`
	CenterY string `json:"centerY,omitempty"`
}

// IsZero reports whether no constraint field is set.
func (c Constraints) IsZero() bool { return c == Constraints{} }

// OriginPoint names one of nine reference locations on a target element.
type OriginPoint string

const (
	OriginTopLeft      OriginPoint = "top-left"
	OriginTopCenter    OriginPoint = "top-center"
	OriginTopRight     OriginPoint = "top-right"
	OriginCenterLeft   OriginPoint = "center-left"
	OriginCenter       OriginPoint = "center"
	OriginCenterRight  OriginPoint = "center-right"
	OriginBottomLeft   OriginPoint = "bottom-left"
	OriginBottomCenter OriginPoint = "bottom-center"
	OriginBottomRight  OriginPoint = "bottom-right"
)

// AttachmentMode selects which point on the anchored element coincides
// with the origin point on the target.
type AttachmentMode string

const (
	// AttachInside aligns the anchored element's matching point with the origin.
	AttachInside AttachmentMode = "inside"
	// AttachOutside aligns the opposite point, placing the element just
	// beyond the target edge the origin references.
	AttachOutside AttachmentMode = "outside"
)

// Offset shifts an anchored element from its computed attachment position.
// X resolves against parent width, Y against parent height.
type Offset struct {
	X string `json:"x,omitempty"`
	Y string `json:"y,omitempty"`
}

// Anchor derives an element's position entirely from another element.
// ElementID must reference an existing box in the same poster; when it does
// not, callers fall back to constraint-based placement.
type Anchor struct {
	ElementID string         `json:"elementId"`
	Origin    OriginPoint    `json:"originPoint"`
	Mode      AttachmentMode `json:"attachmentMode"`
	Offset    Offset         `json:"offset,omitempty"`
}

// LayoutMode governs how a box places its own children.
type LayoutMode string

const (
	// LayoutAbsolute children position themselves via constraints or anchors.
	LayoutAbsolute LayoutMode = ""
	LayoutFlex     LayoutMode = "flex"
	LayoutGrid     LayoutMode = "grid"
)

// SpanStyle is the typography of a single text span. It is a comparable
// value type; two spans with equal styles are mergeable.
type SpanStyle struct {
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	Color      string  `json:"color,omitempty"`
}

// Span is a contiguous styled run of text. Concatenating the Text fields of
// a section's spans in order yields the full content.
type Span struct {
	Text  string    `json:"text"`
	Style SpanStyle `json:"style"`
}

// Metadata contains optional descriptive metadata for a poster.
type Metadata struct {
	Author string   `json:"author,omitempty"`
	Notes  string   `json:"notes,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// Poster is the document root: a fixed-size canvas with a section tree and
// free-floating decorations layered on top.
type Poster struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Canvas      Size         `json:"canvas"`
	Sections    SectionList  `json:"sections"`
	Decorations []Decoration `json:"decorations,omitempty"`
	Metadata    Metadata     `json:"metadata,omitempty"`
}

// Section is the closed set of node kinds a layout box may contain.
// The marker method keeps the set closed to this package; consumers switch
// over *LayoutBox, *TextSection and *ImageSection exhaustively.
type Section interface {
	ID() string
	sectionType() string
}

// Section type discriminators used in the JSON form.
const (
	SectionTypeLayoutBox = "layout_box"
	SectionTypeText      = "text"
	SectionTypeImage     = "image"
)

// LayoutBox is a positioned container node. Exactly one positioning mode
// applies: Anchor when set, otherwise the parent's flex/grid layout when the
// parent is not absolute, otherwise Constraints.
type LayoutBox struct {
	BoxID       string       `json:"id"`
	Constraints *Constraints `json:"constraints,omitempty"`
	Anchor      *Anchor      `json:"anchor,omitempty"`
	LayoutMode  LayoutMode   `json:"layoutMode,omitempty"`
	Sections    SectionList  `json:"sections,omitempty"`

	// Hints consumed by the parent when it lays this box out in flex or
	// grid mode. Ignored under absolute parents.
	GridColumn string  `json:"gridColumn,omitempty"`
	GridRow    string  `json:"gridRow,omitempty"`
	FlexGrow   float64 `json:"flexGrow,omitempty"`
	FlexShrink float64 `json:"flexShrink,omitempty"`

	Background string `json:"background,omitempty"`
}

func (b *LayoutBox) ID() string        { return b.BoxID }
func (*LayoutBox) sectionType() string { return SectionTypeLayoutBox }

// TextSection is a single logical text run as an ordered span sequence.
type TextSection struct {
	TextID string `json:"id"`
	Spans  []Span `json:"spans"`
	Align  string `json:"align,omitempty"` // left | center | right
}

func (t *TextSection) ID() string        { return t.TextID }
func (*TextSection) sectionType() string { return SectionTypeText }

// ImageSection displays a raster asset inside its box.
type ImageSection struct {
	ImageID string `json:"id"`
	Source  string `json:"src"`
	Fit     string `json:"fit,omitempty"` // cover | contain
}

func (i *ImageSection) ID() string        { return i.ImageID }
func (*ImageSection) sectionType() string { return SectionTypeImage }

// DecorationPosition is free placement for an unanchored decoration:
// X as a percentage of canvas width, Y in raw pixels.
type DecorationPosition struct {
	XPercent float64 `json:"xPercent"`
	YPx      float64 `json:"yPx"`
}

// Decoration is a free-floating ornamental image. Its height always follows
// the intrinsic aspect ratio; Position and Anchor are mutually exclusive.
type Decoration struct {
	ID           string              `json:"id"`
	Image        string              `json:"image"`
	AspectRatio  float64             `json:"aspectRatio"` // width / height
	WidthPercent float64             `json:"widthPercent"`
	Position     *DecorationPosition `json:"position,omitempty"`
	Anchor       *Anchor             `json:"anchor,omitempty"`
	Angle        float64             `json:"angle,omitempty"` // degrees
	Stroke       *Stroke             `json:"stroke,omitempty"`
	Shadow       *Shadow             `json:"shadow,omitempty"`
	BorderRadius float64             `json:"borderRadius,omitempty"`
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type Stroke struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

type Shadow struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Color   Color   `json:"color"`
}
