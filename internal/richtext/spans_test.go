/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package richtext

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"posterforge/internal/domain"
)

var styleA = domain.SpanStyle{FontFamily: "Inter", FontSize: 14}

func TestApplyStyleExactBoundary(t *testing.T) {
	spans := []domain.Span{{Text: "Hello World", Style: styleA}}
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 6, End: 11})

	boldA := styleA
	boldA.Bold = true
	want := []domain.Span{
		{Text: "Hello ", Style: styleA},
		{Text: "World", Style: boldA},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("span mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyStyleMiddleSplitsInThree(t *testing.T) {
	spans := []domain.Span{{Text: "abcdef", Style: styleA}}
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 2, End: 4})
	if len(got) != 3 {
		t.Fatalf("expected 3 spans, got %d: %+v", len(got), got)
	}
	if Content(got) != "abcdef" {
		t.Fatalf("content changed: %q", Content(got))
	}
	if got[0].Text != "ab" || got[1].Text != "cd" || got[2].Text != "ef" {
		t.Fatalf("bad split: %+v", got)
	}
	if got[0].Style.Bold || !got[1].Style.Bold || got[2].Style.Bold {
		t.Fatalf("patch applied to wrong pieces: %+v", got)
	}
}

func TestApplyStyleAcrossSpans(t *testing.T) {
	b := styleA
	b.Italic = true
	spans := []domain.Span{
		{Text: "one ", Style: styleA},
		{Text: "two ", Style: b},
		{Text: "three", Style: styleA},
	}
	// select "e two th" (3..11): tail of span 0, all of span 1, head of span 2
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 3, End: 11})
	if Content(got) != "one two three" {
		t.Fatalf("content changed: %q", Content(got))
	}
	// offsets 3..11 must be bold, everything else not
	offset := 0
	for _, sp := range got {
		for range sp.Text {
			wantBold := offset >= 3 && offset < 11
			if sp.Style.Bold != wantBold {
				t.Fatalf("offset %d: bold=%v, want %v", offset, sp.Style.Bold, wantBold)
			}
			offset++
		}
	}
}

func TestApplyStyleEmptySelectionNoOp(t *testing.T) {
	spans := []domain.Span{{Text: "abc", Style: styleA}}
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 2, End: 2})
	if diff := cmp.Diff(spans, got); diff != "" {
		t.Fatalf("empty selection must be a no-op:\n%s", diff)
	}
}

func TestApplyStyleMergeIdempotence(t *testing.T) {
	bold := styleA
	bold.Bold = true
	spans := []domain.Span{
		{Text: "abc", Style: bold},
		{Text: "def", Style: styleA},
	}
	// Bolding "def" makes it identical to its neighbor; the result must
	// collapse to a single span.
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 3, End: 6})
	if len(got) != 1 || got[0].Text != "abcdef" {
		t.Fatalf("expected single merged span, got %+v", got)
	}
	// Re-applying the same patch over the whole run changes nothing.
	again := ApplyStyleToSelection(got, Bold(true), Selection{Start: 0, End: 6})
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("idempotence violated:\n%s", diff)
	}
}

func TestApplyStyleNoSynthesizedEmptySpans(t *testing.T) {
	spans := []domain.Span{{Text: "abcdef", Style: styleA}}
	// selection starts exactly at 0 and ends exactly at len: no pre/post
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 0, End: 6})
	if len(got) != 1 {
		t.Fatalf("expected 1 span, got %+v", got)
	}
	for _, sp := range got {
		if sp.Text == "" {
			t.Fatalf("synthesized empty span: %+v", got)
		}
	}
}

func TestApplyStylePreservesInputEmptySpan(t *testing.T) {
	other := styleA
	other.Underline = true
	spans := []domain.Span{
		{Text: "", Style: other}, // pre-existing empty span, distinct style
		{Text: "abc", Style: styleA},
	}
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 0, End: 1})
	if got[0].Text != "" {
		t.Fatalf("input empty span must survive untouched: %+v", got)
	}
}

func TestApplyStyleSelectionClampsPastEnd(t *testing.T) {
	spans := []domain.Span{{Text: "abc", Style: styleA}}
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 1, End: 99})
	if Content(got) != "abc" {
		t.Fatalf("content changed: %q", Content(got))
	}
	if !got[len(got)-1].Style.Bold {
		t.Fatalf("tail should be bold: %+v", got)
	}
}

func TestApplyStyleUnicodeOffsets(t *testing.T) {
	spans := []domain.Span{{Text: "héllo wörld", Style: styleA}}
	got := ApplyStyleToSelection(spans, Bold(true), Selection{Start: 6, End: 11})
	if got[0].Text != "héllo " || got[1].Text != "wörld" {
		t.Fatalf("rune offsets mishandled: %+v", got)
	}
}

func TestMergeAdjacent(t *testing.T) {
	spans := []domain.Span{
		{Text: "a", Style: styleA},
		{Text: "b", Style: styleA},
		{Text: "c", Style: styleA},
	}
	got := MergeAdjacent(spans)
	if len(got) != 1 || got[0].Text != "abc" {
		t.Fatalf("got %+v", got)
	}
}

func TestFixedMetricsDeterministic(t *testing.T) {
	m := FixedMetrics{}
	spans := []domain.Span{{Text: "Hello World", Style: domain.SpanStyle{FontSize: 20}}}
	a := m.Measure(spans, 0)
	b := m.Measure(spans, 0)
	if a != b {
		t.Fatalf("measurement not deterministic: %+v vs %+v", a, b)
	}
	if a.Width != 11*20*0.6 || a.Height != 20*1.2 {
		t.Fatalf("unexpected metrics: %+v", a)
	}
}

func TestFixedMetricsWraps(t *testing.T) {
	m := FixedMetrics{}
	spans := []domain.Span{{Text: "aaaaaaaaaa", Style: domain.SpanStyle{FontSize: 10}}} // glyph 6px, 60px total
	s := m.Measure(spans, 30)
	if s.Width > 30 {
		t.Fatalf("line exceeded max width: %+v", s)
	}
	if s.Height != 2*10*1.2 {
		t.Fatalf("expected two lines, got %+v", s)
	}
}
