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
	"errors"
	"fmt"
)

// ErrRegistryFull indicates that no counter id was reusable at allocation
// time. Oversized keys or labels report the same condition; the registry
// does not distinguish "none free" from "none yet cooled".
var ErrRegistryFull = errors.New("counters: no counter id available")

// Counter is a writer-side handle bound to one allocated counter. It keeps
// the id and the resolved value address together so hot-path updates avoid
// re-deriving the pointer. A Counter follows the same single-writer rule as
// its Manager.
type Counter struct {
	mgr    *Manager
	id     int32
	addr   *int64
	closed bool
}

// NewCounter allocates a counter and returns a handle bound to it. Returns
// ErrRegistryFull when allocation fails.
func (m *Manager) NewCounter(typeID int32, key, label []byte) (*Counter, error) {
	id := m.Allocate(typeID, key, label)
	if id == NullCounterID {
		return nil, ErrRegistryFull
	}
	return &Counter{mgr: m, id: id, addr: m.Addr(id)}, nil
}

// ID returns the counter's id.
func (c *Counter) ID() int32 {
	return c.id
}

// Addr returns the counter's value address.
func (c *Counter) Addr() *int64 {
	return c.addr
}

// Get loads the value without any ordering.
func (c *Counter) Get() int64 {
	return GetPlain(c.addr)
}

// GetAcquire loads the value with acquire ordering.
func (c *Counter) GetAcquire() int64 {
	return GetAcquire(c.addr)
}

// Set stores the value without any ordering.
func (c *Counter) Set(v int64) {
	SetPlain(c.addr, v)
}

// SetRelease publishes the value with release ordering.
func (c *Counter) SetRelease(v int64) {
	SetRelease(c.addr, v)
}

// Increment atomically adds one, publishing the new value, and returns the
// previous value.
func (c *Counter) Increment() int64 {
	return IncrementRelease(c.addr)
}

// GetAndAdd atomically adds delta, publishing the new value, and returns
// the previous value.
func (c *Counter) GetAndAdd(delta int64) int64 {
	return GetAndAddRelease(c.addr, delta)
}

// ProposeMax stores v iff it exceeds the current value, publishing it with
// release ordering. Returns true iff the value was stored.
func (c *Counter) ProposeMax(v int64) bool {
	return ProposeMaxRelease(c.addr, v)
}

// Close frees the counter's id back to its manager. Closing twice is an
// error, as is closing a counter whose id was freed out of band.
func (c *Counter) Close() error {
	if c.closed {
		return fmt.Errorf("counter %d already closed", c.id)
	}
	c.closed = true
	if c.mgr.Free(c.id) < 0 {
		return fmt.Errorf("counter %d was not allocated", c.id)
	}
	return nil
}
