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

import "sync/atomic"

// Value primitives operate directly on the *int64 returned by Manager.Addr
// or Reader.ValueAddr. The acquire loads and the release store, increment
// and get-and-add variants are safe under concurrent callers on the same
// slot; ProposeMaxRelease is not, as it relies on a single writer per slot.
// The plain variants carry no
// cross-goroutine ordering and are for single-threaded or externally
// synchronized use. Go's sync/atomic provides sequentially consistent
// operations, which satisfy the release/acquire contracts here.

// GetPlain loads the counter without any ordering.
func GetPlain(addr *int64) int64 {
	return *addr
}

// GetAcquire loads the counter with acquire ordering. Pairs with any
// release store made by the writer.
func GetAcquire(addr *int64) int64 {
	return atomic.LoadInt64(addr)
}

// SetPlain stores v without any ordering.
func SetPlain(addr *int64, v int64) {
	*addr = v
}

// SetRelease stores v with release ordering, publishing it to any reader
// that subsequently loads the counter with acquire ordering.
func SetRelease(addr *int64, v int64) {
	atomic.StoreInt64(addr, v)
}

// IncrementPlain adds one to the counter without atomicity and returns the
// previous value.
func IncrementPlain(addr *int64) int64 {
	v := *addr
	*addr = v + 1
	return v
}

// IncrementRelease atomically adds one to the counter, publishing the new
// value, and returns the previous value.
func IncrementRelease(addr *int64) int64 {
	return atomic.AddInt64(addr, 1) - 1
}

// GetAndAddPlain adds delta (which may be negative) to the counter without
// atomicity and returns the previous value.
func GetAndAddPlain(addr *int64, delta int64) int64 {
	v := *addr
	*addr = v + delta
	return v
}

// GetAndAddRelease atomically adds delta (which may be negative) to the
// counter, publishing the new value, and returns the previous value.
func GetAndAddRelease(addr *int64, delta int64) int64 {
	return atomic.AddInt64(addr, delta) - delta
}

// ProposeMaxPlain stores v iff it exceeds the current value, without any
// ordering. Returns true iff the value was stored.
func ProposeMaxPlain(addr *int64, v int64) bool {
	if *addr < v {
		*addr = v
		return true
	}
	return false
}

// ProposeMaxRelease stores v with release ordering iff it exceeds the
// current value. Returns true iff the value was stored. Like all release
// stores on a slot, this assumes the single-writer rule: one writer owns
// the counter until it is freed.
func ProposeMaxRelease(addr *int64, v int64) bool {
	if *addr < v {
		atomic.StoreInt64(addr, v)
		return true
	}
	return false
}
