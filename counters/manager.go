/*
 *
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
 *
 */

package counters

import (
	"fmt"
	"sort"
	"time"

	"github.com/nickelaway/aeron/clock"
)

// NullCounterID is returned by Allocate when no counter could be allocated:
// either every slot is in use or still cooling down, or the key or label is
// too long for the record layout.
const NullCounterID int32 = -1

// Manager allocates counter ids out of a pair of borrowed byte regions.
// Exactly one Manager may write to a given pair of regions; all of its
// methods must be called from a single goroutine or be externally
// synchronized. Readers in other goroutines or processes are unconstrained.
type Manager struct {
	layout
	clock          *clock.Cached
	reuseTimeoutMs int64 // cool-down in ms; 0 means freed ids are immediately reusable

	// freeList holds freed ids in ascending order so that the lowest
	// eligible id is always recycled first.
	freeList      []int32
	highWaterMark int32 // ids below this have been allocated at least once
}

// NewManager creates a manager over the given metadata and values regions.
// Capacity is implied by the region lengths. The regions are borrowed: the
// caller guarantees they stay mapped for the lifetime of the manager and of
// every reader attached to them. reuseTimeout is the minimum duration, on
// the cached clock, before a freed id may be recycled; zero disables the
// cool-down.
func NewManager(metadata, values []byte, clk *clock.Cached, reuseTimeout time.Duration) (*Manager, error) {
	if clk == nil {
		return nil, fmt.Errorf("cached clock must not be nil")
	}
	if reuseTimeout < 0 {
		return nil, fmt.Errorf("reuse timeout must not be negative: %v", reuseTimeout)
	}

	l, err := newLayout(metadata, values)
	if err != nil {
		return nil, fmt.Errorf("invalid counters layout: %w", err)
	}

	return &Manager{
		layout:         l,
		clock:          clk,
		reuseTimeoutMs: reuseTimeout.Milliseconds(),
	}, nil
}

// Allocate claims a counter id and publishes its metadata. The key and
// label are copied into the record with plain stores, the value slot is
// zeroed, and the slot state is then published as allocated with a release
// store; a reader that observes the allocated state sees the complete
// record. Returns NullCounterID when no id is reusable or the key or label
// exceeds the record layout, in which case no slot has been mutated.
func (m *Manager) Allocate(typeID int32, key, label []byte) int32 {
	if len(key) > MaxKeyLength || len(label) > MaxLabelLength {
		return NullCounterID
	}

	id := m.nextCounterID()
	if id == NullCounterID {
		return NullCounterID
	}

	rec := m.record(id)
	rec.typeID = typeID
	rec.deadline = 0
	copy(rec.key[:], key)
	copy(rec.label[:], label)
	rec.labelLen = int32(len(label))

	// Reset the value before the slot becomes visible so that a reader
	// never observes a stale count from a previous incarnation.
	*m.valueAddr(id) = 0

	rec.SetState(RecordAllocated)

	return id
}

// nextCounterID pops the lowest previously-used id whose cool-down has
// expired, or takes the next never-used id. Slots still cooling down are
// skipped, never waited on. Returns NullCounterID on exhaustion.
func (m *Manager) nextCounterID() int32 {
	nowMs := m.clock.TimeMillis()

	for i, id := range m.freeList {
		if nowMs >= m.record(id).deadline {
			m.freeList = append(m.freeList[:i], m.freeList[i+1:]...)
			return id
		}
	}

	if m.highWaterMark >= m.capacity {
		return NullCounterID
	}

	id := m.highWaterMark
	m.highWaterMark++
	return id
}

// Free returns a counter id to the pool. With no cool-down configured the
// slot goes straight back to free; otherwise it is marked reclaimed with a
// reuse deadline and recycled by a later Allocate once the deadline has
// passed on the cached clock. Returns a negative value if id is out of
// range or the slot is not currently allocated.
func (m *Manager) Free(id int32) int {
	if id < 0 || id >= m.capacity {
		return -1
	}

	rec := m.record(id)
	if rec.State() != RecordAllocated {
		return -1
	}

	if m.reuseTimeoutMs == 0 {
		rec.deadline = 0
		rec.SetState(RecordFree)
	} else {
		rec.deadline = m.clock.TimeMillis() + m.reuseTimeoutMs
		rec.SetState(RecordReclaimed)
	}

	m.pushFree(id)
	return 0
}

// pushFree inserts id into the free list keeping ascending order.
func (m *Manager) pushFree(id int32) {
	i := sort.Search(len(m.freeList), func(i int) bool { return m.freeList[i] >= id })
	m.freeList = append(m.freeList, 0)
	copy(m.freeList[i+1:], m.freeList[i:])
	m.freeList[i] = id
}

// Addr returns a stable pointer to the value slot for id, suitable for the
// counter value primitives. The pointer stays valid as long as the values
// region remains mapped, even across free and reuse of the id.
func (m *Manager) Addr(id int32) *int64 {
	return m.valueAddr(id)
}

// Close releases the manager's internal state. The byte regions are owned
// by the caller and are not touched.
func (m *Manager) Close() {
	m.freeList = nil
	m.metadata = nil
	m.values = nil
}
