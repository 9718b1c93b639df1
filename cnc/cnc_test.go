/*
 * Copyright 2025 The Aeron-Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cnc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nickelaway/aeron/cnc"
	"github.com/nickelaway/aeron/counters"
)

// createTestFile creates a counters file in a temporary directory and
// registers cleanup.
func createTestFile(t *testing.T, capacity int32) *cnc.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), cnc.DefaultFileName)
	file, err := cnc.Create(path, capacity)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { file.Close() })

	return file
}

func TestCreateInitializesHeader(t *testing.T) {
	file := createTestFile(t, 8)

	if got := file.Capacity(); got != 8 {
		t.Errorf("Capacity = %d, want 8", got)
	}
	if got := file.WriterPID(); got != uint32(os.Getpid()) {
		t.Errorf("WriterPID = %d, want %d", got, os.Getpid())
	}
	if got := len(file.MetadataRegion()); got != 8*counters.MetadataLength {
		t.Errorf("metadata region length = %d, want %d", got, 8*counters.MetadataLength)
	}
	if got := len(file.ValuesRegion()); got != 8*counters.CounterLength {
		t.Errorf("values region length = %d, want %d", got, 8*counters.CounterLength)
	}
}

func TestCreateRejectsExistingFile(t *testing.T) {
	file := createTestFile(t, 4)

	if _, err := cnc.Create(file.Path(), 4); err == nil {
		t.Error("Create over an existing file should have failed")
	}
}

func TestCreateRejectsBadCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), cnc.DefaultFileName)

	for _, capacity := range []int32{0, -1} {
		if _, err := cnc.Create(path, capacity); err == nil {
			t.Errorf("Create with capacity %d should have failed", capacity)
		}
	}
}

func TestOpenValidatesHeader(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.dat")
	if err := os.WriteFile(garbage, make([]byte, 4096), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := cnc.Open(garbage); err == nil {
		t.Error("Open on a garbage file should have failed")
	}

	tiny := filepath.Join(dir, "tiny.dat")
	if err := os.WriteFile(tiny, make([]byte, 16), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := cnc.Open(tiny); err == nil {
		t.Error("Open on a truncated file should have failed")
	}

	if _, err := cnc.Open(filepath.Join(dir, "missing.dat")); err == nil {
		t.Error("Open on a missing file should have failed")
	}
}

func TestReadOnlyObserverSeesWriterCounters(t *testing.T) {
	file := createTestFile(t, 8)

	clk := file.Clock()
	clk.Update(42, 42_000_000)

	mgr, err := counters.NewManager(file.MetadataRegion(), file.ValuesRegion(), clk, 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	id := mgr.Allocate(9, nil, []byte("publisher position"))
	if id < 0 {
		t.Fatal("Allocate failed")
	}
	counters.SetRelease(mgr.Addr(id), 8192)

	observer, err := cnc.OpenReadOnly(file.Path())
	if err != nil {
		t.Fatalf("OpenReadOnly failed: %v", err)
	}
	defer observer.Close()

	if got := observer.Capacity(); got != 8 {
		t.Errorf("observer Capacity = %d, want 8", got)
	}
	if got := observer.Clock().TimeMillis(); got != 42 {
		t.Errorf("observer clock = %d ms, want 42", got)
	}

	reader, err := counters.NewReader(observer.MetadataRegion(), observer.ValuesRegion())
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var visited int
	reader.ForEach(func(gotID, typeID int32, key, label []byte) {
		visited++
		if gotID != id {
			t.Errorf("id = %d, want %d", gotID, id)
		}
		if typeID != 9 {
			t.Errorf("typeID = %d, want 9", typeID)
		}
		if string(label) != "publisher position" {
			t.Errorf("label = %q", label)
		}
	})
	if visited != 1 {
		t.Fatalf("visited %d counters, want 1", visited)
	}

	if got := reader.CounterValue(id); got != 8192 {
		t.Errorf("CounterValue = %d, want 8192", got)
	}
}

func TestReopenReadWrite(t *testing.T) {
	file := createTestFile(t, 4)
	path := file.Path()

	mgr, err := counters.NewManager(file.MetadataRegion(), file.ValuesRegion(), file.Clock(), 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	mgr.Allocate(0, nil, []byte("lab0"))
	mgr.Close()
	if err := file.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := cnc.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()

	var labels []string
	counters.ForEachMetadata(reopened.MetadataRegion(), func(id, typeID int32, key, label []byte) {
		labels = append(labels, string(label))
	})
	if len(labels) != 1 || labels[0] != "lab0" {
		t.Errorf("labels after reopen = %v, want [lab0]", labels)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	file := createTestFile(t, 4)

	if err := file.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	if cnc.DefaultPath() == "" {
		t.Error("DefaultPath returned an empty path")
	}
}
