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
	"sync/atomic"
	"unsafe"
)

// Memory layout constants. Record sizes are published so that external
// tools can map the regions without any header. All multi-byte fields are
// little-endian on every supported platform.
const (
	// CacheLineLength is the assumed CPU cache line size in bytes.
	CacheLineLength = 64

	// MetadataLength is the size of one metadata record (8 cache lines).
	MetadataLength = 8 * CacheLineLength

	// CounterLength is the size of one value slot. The counter itself is
	// the first 8 bytes; the rest is padding against false sharing.
	CounterLength = 2 * CacheLineLength

	// Metadata record field offsets.
	stateOffset    = 0
	typeIDOffset   = 4
	deadlineOffset = 8
	keyOffset      = 16
	labelLenOffset = 2 * CacheLineLength
	labelOffset    = labelLenOffset + 4

	// MaxKeyLength is the size of the opaque key window in a metadata
	// record. The 16-byte record header plus the key window fill exactly
	// two cache lines, isolating the hot fields of neighbouring records.
	MaxKeyLength = labelLenOffset - keyOffset

	// MaxLabelLength is the longest label a record can hold.
	MaxLabelLength = MetadataLength - labelOffset
)

// Counter record states. A slot moves Free -> Allocated -> (Reclaimed ->)
// Free; the Reclaimed -> Free edge is taken by a later allocation once the
// reuse deadline has passed.
const (
	// RecordFree marks a slot that has never been used or whose cool-down
	// has expired and is available for allocation.
	RecordFree int32 = 0

	// RecordAllocated marks a live counter. Observing this state with
	// acquire ordering guarantees the rest of the record is fully visible.
	RecordAllocated int32 = 1

	// RecordReclaimed marks a freed slot still inside its cool-down.
	RecordReclaimed int32 = 2
)

// metadataRecord mirrors the byte layout of one metadata slot:
//
//	state:i32 @0 | typeID:i32 @4 | deadline:i64 @8 |
//	key @16..128 | labelLen:i32 @128 | label @132..512
type metadataRecord struct {
	state    int32
	typeID   int32
	deadline int64 // ms on the cached clock after which the slot may be reused
	key      [MaxKeyLength]byte
	labelLen int32
	label    [MaxLabelLength]byte
}

// State loads the record state with acquire ordering. Pairs with SetState
// by the allocating writer.
func (r *metadataRecord) State() int32 {
	return atomic.LoadInt32(&r.state)
}

// SetState publishes the record state with release ordering. All plain
// stores to the record made before this call are visible to any reader
// that subsequently observes the new state.
func (r *metadataRecord) SetState(state int32) {
	atomic.StoreInt32(&r.state, state)
}

// labelBytes returns the label window truncated to the stored length.
func (r *metadataRecord) labelBytes() []byte {
	n := r.labelLen
	if n < 0 || n > MaxLabelLength {
		n = 0
	}
	return r.label[:n]
}

// layout provides bit-exact addressing over the two borrowed byte regions.
// The slot at index i in the metadata region corresponds to the slot at
// index i in the values region, and its counter id is i.
type layout struct {
	metadata []byte
	values   []byte
	capacity int32
}

// newLayout validates the regions and derives the counter capacity. It is
// an error for either region length to not be an exact positive multiple of
// its record size, for the two implied capacities to disagree, or for either
// base address to be misaligned for atomic access.
func newLayout(metadata, values []byte) (layout, error) {
	if len(metadata) == 0 || len(metadata)%MetadataLength != 0 {
		return layout{}, fmt.Errorf("metadata region length %d is not a positive multiple of %d", len(metadata), MetadataLength)
	}
	if len(values) == 0 || len(values)%CounterLength != 0 {
		return layout{}, fmt.Errorf("values region length %d is not a positive multiple of %d", len(values), CounterLength)
	}
	if uintptr(unsafe.Pointer(&metadata[0]))%8 != 0 {
		return layout{}, fmt.Errorf("metadata region is not 8-byte aligned")
	}
	if uintptr(unsafe.Pointer(&values[0]))%8 != 0 {
		return layout{}, fmt.Errorf("values region is not 8-byte aligned")
	}

	metadataCapacity := len(metadata) / MetadataLength
	valuesCapacity := len(values) / CounterLength
	if metadataCapacity != valuesCapacity {
		return layout{}, fmt.Errorf(
			"region capacities disagree: metadata implies %d counters, values implies %d", metadataCapacity, valuesCapacity)
	}

	return layout{
		metadata: metadata,
		values:   values,
		capacity: int32(metadataCapacity),
	}, nil
}

// Capacity returns the number of counter slots the regions hold.
func (l *layout) Capacity() int32 {
	return l.capacity
}

// record returns a typed view of the metadata slot for id.
func (l *layout) record(id int32) *metadataRecord {
	return (*metadataRecord)(unsafe.Pointer(&l.metadata[int(id)*MetadataLength]))
}

// valueAddr returns a stable pointer to the counter value for id. The
// pointer remains valid for the lifetime of the mapped region.
func (l *layout) valueAddr(id int32) *int64 {
	return (*int64)(unsafe.Pointer(&l.values[int(id)*CounterLength]))
}
