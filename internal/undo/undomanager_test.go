/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"bytes"
	"testing"
	"time"
)

func snap(id string, blob string, ts time.Time) Snapshot {
	return Snapshot{PosterID: id, Blob: []byte(blob), TS: ts}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(snap("p1", "v1", t0))
	m.PushSnapshot(snap("p1", "v2", t0.Add(time.Second)))

	s, ok := m.Undo("p1")
	if !ok || !bytes.Equal(s.Blob, []byte("v2")) {
		t.Fatalf("undo: %v %q", ok, s.Blob)
	}
	s, ok = m.Redo("p1")
	if !ok || !bytes.Equal(s.Blob, []byte("v2")) {
		t.Fatalf("redo: %v %q", ok, s.Blob)
	}
	if _, ok := m.Redo("p1"); ok {
		t.Fatalf("redo stack should be exhausted")
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(snap("p1", "v1", t0))
	m.PushSnapshot(snap("p1", "v2", t0.Add(time.Second)))
	if _, ok := m.Undo("p1"); !ok {
		t.Fatalf("undo failed")
	}
	m.PushSnapshot(snap("p1", "v3", t0.Add(2*time.Second)))
	if _, ok := m.Redo("p1"); ok {
		t.Fatalf("new change must clear the redo stack")
	}
}

func TestCoalescingWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	t0 := time.Now()
	m.PushSnapshot(snap("p1", "a", t0))
	m.PushSnapshot(snap("p1", "ab", t0.Add(100*time.Millisecond)))
	m.PushSnapshot(snap("p1", "abc", t0.Add(200*time.Millisecond)))

	_, _, total := m.Stats()
	if total != 1 {
		t.Fatalf("rapid pushes should coalesce to one snapshot, got %d", total)
	}
	s, ok := m.Undo("p1")
	if !ok || string(s.Blob) != "abc" {
		t.Fatalf("coalesced snapshot should carry the latest blob: %q", s.Blob)
	}
}

func TestPerPosterDepthCap(t *testing.T) {
	m := NewManager(Config{MaxPerPoster: 2, MinInterval: time.Millisecond})
	t0 := time.Now()
	for i, b := range []string{"v1", "v2", "v3"} {
		m.PushSnapshot(snap("p1", b, t0.Add(time.Duration(i)*time.Second)))
	}
	_, _, total := m.Stats()
	if total != 2 {
		t.Fatalf("depth cap not enforced: %d", total)
	}
	s, _ := m.Undo("p1")
	if string(s.Blob) != "v3" {
		t.Fatalf("newest snapshot must survive the cap: %q", s.Blob)
	}
}

func TestGlobalByteCapPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxBytes: 10, MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(snap("p1", "aaaaaa", t0))                    // 6 bytes
	m.PushSnapshot(snap("p2", "bbbbbb", t0.Add(time.Second)))   // 12 total, prune p1
	bytesUsed, posters, _ := m.Stats()
	if bytesUsed > 10 {
		t.Fatalf("byte cap exceeded: %d", bytesUsed)
	}
	if posters != 1 {
		t.Fatalf("oldest poster stack should have been pruned away, posters=%d", posters)
	}
	if _, ok := m.Undo("p1"); ok {
		t.Fatalf("p1 should have been pruned")
	}
}

func TestClearReleasesAccounting(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(snap("p1", "0123456789", t0))
	m.Clear("p1")
	bytesUsed, posters, total := m.Stats()
	if bytesUsed != 0 || posters != 0 || total != 0 {
		t.Fatalf("clear left residue: bytes=%d posters=%d snaps=%d", bytesUsed, posters, total)
	}
}

func TestPostersAreIsolated(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(snap("p1", "one", t0))
	m.PushSnapshot(snap("p2", "two", t0.Add(time.Second)))
	if s, ok := m.Undo("p2"); !ok || string(s.Blob) != "two" {
		t.Fatalf("p2 undo: %v %q", ok, s.Blob)
	}
	if s, ok := m.Undo("p1"); !ok || string(s.Blob) != "one" {
		t.Fatalf("p1 undo: %v %q", ok, s.Blob)
	}
}
