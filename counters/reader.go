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
	"unsafe"
)

// MetadataVisitor is called once for every allocated counter observed
// during iteration. The key and label slices alias the live metadata
// region; the visitor must copy any bytes it wishes to retain and must not
// mutate the region or re-enter the manager.
type MetadataVisitor func(id, typeID int32, key, label []byte)

// ForEachMetadata walks the metadata region in ascending id order, loading
// each slot's state with acquire ordering and visiting every slot observed
// as allocated. Free and reclaimed slots are skipped, not terminal, so
// holes left by freed counters are traversed safely; iteration ends at the
// last complete record. The walk is wait-free, allocates nothing, and
// tolerates a concurrent writer: a visited slot's metadata bytes stay
// stable even if it is freed mid-visit, because metadata is only mutated
// on the free-to-allocated edge.
func ForEachMetadata(metadata []byte, visitor MetadataVisitor) {
	for id := int32(0); int(id+1)*MetadataLength <= len(metadata); id++ {
		rec := (*metadataRecord)(unsafe.Pointer(&metadata[int(id)*MetadataLength]))
		if rec.State() != RecordAllocated {
			continue
		}
		visitor(id, rec.typeID, rec.key[:], rec.labelBytes())
	}
}

// Reader is a side-only view over a counters region pair for observer
// processes. It never writes to either region and holds no internal state
// beyond the borrowed slices, so a single Reader may be shared freely.
type Reader struct {
	layout
}

// NewReader creates a reader over metadata and values regions, typically a
// read-only mapping of the regions some other process allocates into. The
// same layout rules as NewManager apply.
func NewReader(metadata, values []byte) (*Reader, error) {
	l, err := newLayout(metadata, values)
	if err != nil {
		return nil, fmt.Errorf("invalid counters layout: %w", err)
	}
	return &Reader{layout: l}, nil
}

// ForEach visits every allocated counter's metadata in ascending id order.
func (r *Reader) ForEach(visitor MetadataVisitor) {
	ForEachMetadata(r.metadata, visitor)
}

// CounterValue reads the value of counter id with acquire ordering.
func (r *Reader) CounterValue(id int32) int64 {
	return GetAcquire(r.valueAddr(id))
}

// ValueAddr returns a pointer to the value slot for id for use with the
// acquire-side value primitives.
func (r *Reader) ValueAddr(id int32) *int64 {
	return r.valueAddr(id)
}

// State returns the current state of the slot for id, loaded with acquire
// ordering.
func (r *Reader) State(id int32) int32 {
	return r.record(id).State()
}

// TypeID returns the type tag of the slot for id. Only meaningful when the
// slot has been observed allocated.
func (r *Reader) TypeID(id int32) int32 {
	return r.record(id).typeID
}

// Label returns a copy of the label of the slot for id. Only meaningful
// when the slot has been observed allocated.
func (r *Reader) Label(id int32) string {
	return string(r.record(id).labelBytes())
}
