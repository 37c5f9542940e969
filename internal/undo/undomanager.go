/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Snapshot represents a reversible state blob for one poster document.
// Blob content is opaque to the manager; size is estimated as len(Blob).
// TS is when the snapshot was captured.
type Snapshot struct {
	PosterID string
	Blob     []byte
	TS       time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerPoster limits snapshots kept per poster (0 means unlimited).
	MaxPerPoster int
	// MinInterval coalesces snapshots captured within the interval for the
	// same poster, replacing the previous one instead of pushing a new entry.
	// Gesture streams produce one snapshot per pointer move; without
	// coalescing a single drag would flood the stack.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per poster with performance
// safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex

	undo map[string][]Snapshot
	redo map[string][]Snapshot

	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// PushSnapshot records a snapshot for a poster. If within MinInterval from
// the last snapshot on the same poster, it replaces the last one. Clears the
// redo stack for that poster.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.PosterID]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.totalBytes -= len(last.Blob)
			m.totalBytes += len(s.Blob)
			stack[n-1] = s
			m.undo[s.PosterID] = stack
			m.redo[s.PosterID] = nil
			m.enforceCapsLocked(s.PosterID)
			return
		}
	}
	stack = append(stack, s)
	m.undo[s.PosterID] = stack
	m.totalBytes += len(s.Blob)
	// any new change invalidates redo for the poster
	m.redo[s.PosterID] = nil
	m.enforceCapsLocked(s.PosterID)
}

// Undo pops from the poster's undo stack and pushes onto its redo stack.
func (m *Manager) Undo(posterID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[posterID]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[posterID] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[posterID] = append(m.redo[posterID], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(posterID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[posterID]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[posterID] = r[:len(r)-1]
	m.undo[posterID] = append(m.undo[posterID], s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(posterID)
	return s, true
}

// Clear drops both stacks for a poster to free memory.
func (m *Manager) Clear(posterID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[posterID] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, posterID)
	delete(m.redo, posterID)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, posters int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posters = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, posters, totalSnapshots
}

func (m *Manager) enforceCapsLocked(posterID string) {
	if m.cfg.MaxPerPoster > 0 {
		stack := m.undo[posterID]
		if len(stack) > m.cfg.MaxPerPoster {
			toDrop := len(stack) - m.cfg.MaxPerPoster
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[posterID] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all posters
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestPoster := ""
		found := false
		var oldestTS time.Time
		for id, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) {
				oldestPoster = id
				found = true
				oldestTS = stack[0].TS
			}
		}
		if !found {
			break
		}
		stack := m.undo[oldestPoster]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestPoster] = stack[1:]
		if len(m.undo[oldestPoster]) == 0 {
			delete(m.undo, oldestPoster)
		}
	}
}
