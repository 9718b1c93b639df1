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

// Package clock provides a cached, coarse time source that hot paths can
// sample without a syscall. One agent updates the cache on its duty cycle;
// any number of readers sample it. Readers never advance the clock.
package clock

import (
	"sync/atomic"
	"time"
)

// Cached holds a two-word cached timestamp. The zero value reads as time
// zero and is ready for use. Tests advance it directly via Update;
// production wires it to a SystemUpdater or an equivalent duty cycle.
type Cached struct {
	timeMs atomic.Int64
	timeNs atomic.Int64
}

// Update stores a new cached timestamp. Only the owning agent may call it.
func (c *Cached) Update(ms, ns int64) {
	c.timeMs.Store(ms)
	c.timeNs.Store(ns)
}

// TimeMillis samples the cached time in milliseconds. Freshness is bounded
// only by the updater's cadence.
func (c *Cached) TimeMillis() int64 {
	return c.timeMs.Load()
}

// TimeNanos samples the cached time in nanoseconds.
func (c *Cached) TimeNanos() int64 {
	return c.timeNs.Load()
}

// UpdateFromSystem stores the current system time into the cache.
func (c *Cached) UpdateFromSystem() {
	now := time.Now()
	c.Update(now.UnixMilli(), now.UnixNano())
}

// SystemUpdater advances a Cached clock from the system clock on a fixed
// interval until stopped.
type SystemUpdater struct {
	clock    *Cached
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSystemUpdater creates an updater for clock ticking every interval.
// Start must be called before the clock advances.
func NewSystemUpdater(clock *Cached, interval time.Duration) *SystemUpdater {
	return &SystemUpdater{
		clock:    clock,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins updating the clock in a background goroutine. The clock is
// updated once immediately so samples taken right after Start are valid.
func (u *SystemUpdater) Start() {
	u.clock.UpdateFromSystem()

	go func() {
		defer close(u.done)

		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				u.clock.UpdateFromSystem()
			case <-u.stop:
				return
			}
		}
	}()
}

// Stop halts the updater and waits for its goroutine to exit. Stop is safe
// to call once after Start.
func (u *SystemUpdater) Stop() {
	close(u.stop)
	<-u.done
}
