/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"posterforge/internal/domain"
	"posterforge/internal/storage"
)

// TestRecoverWritesReportAndAutosave ensures Recover handles a panic, writes
// a report and an autosave snapshot, and does not terminate the test process
// thanks to the injected exitFn.
func TestRecoverWritesReportAndAutosave(t *testing.T) {
	// Capture stderr temporarily to avoid noisy test logs
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	// Override exitFn to avoid os.Exit during test and to assert it was called
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	ph, err := storage.InitProject(root, domain.Poster{
		ID:       "p1",
		Name:     "Crash Test",
		Canvas:   domain.Size{Width: 100, Height: 100},
		Sections: domain.SectionList{},
	})
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}

	func() {
		defer Recover(ph)
		panic("boom")
	}()

	bdir := filepath.Join(root, storage.BackupsDirName)
	files, err := os.ReadDir(bdir)
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var report, autosave string
	for _, f := range files {
		n := f.Name()
		switch {
		case strings.HasPrefix(n, "crash-") && strings.HasSuffix(n, ".log"):
			report = filepath.Join(bdir, n)
		case strings.HasPrefix(n, "autosave-") && strings.HasSuffix(n, ".json"):
			autosave = filepath.Join(bdir, n)
		}
	}
	if report == "" {
		t.Fatalf("expected crash report file under backups dir")
	}
	if autosave == "" {
		t.Fatalf("expected autosave snapshot under backups dir")
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", string(b))
	}

	// Ensure exit was attempted with code 2 (but intercepted)
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}
