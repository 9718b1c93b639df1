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

package counters_test

import (
	"testing"
	"time"

	"github.com/nickelaway/aeron/clock"
	"github.com/nickelaway/aeron/counters"
)

// newRegions allocates zeroed metadata and values regions for capacity
// counter slots. Heap allocations of this size are 8-byte aligned.
func newRegions(capacity int) (metadata, values []byte) {
	return make([]byte, capacity*counters.MetadataLength), make([]byte, capacity*counters.CounterLength)
}

// newManager builds a manager over fresh regions and registers cleanup.
func newManager(t *testing.T, capacity int, clk *clock.Cached, reuseTimeout time.Duration) *counters.Manager {
	t.Helper()

	metadata, values := newRegions(capacity)
	mgr, err := counters.NewManager(metadata, values, clk, reuseTimeout)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(mgr.Close)

	return mgr
}

// allocate fails the test if allocation does not succeed.
func allocate(t *testing.T, mgr *counters.Manager, label string) int32 {
	t.Helper()

	id := mgr.Allocate(0, nil, []byte(label))
	if id < 0 {
		t.Fatalf("Allocate(%q) failed", label)
	}
	return id
}
