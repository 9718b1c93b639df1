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

// Package counters implements a fixed-capacity registry of named 64-bit
// counters held in externally supplied byte regions.
//
// The registry is designed for shared memory: one process owns a Manager and
// allocates, updates, and frees counters, while any number of other processes
// map the same regions read-only and observe the counters through a Reader
// without coordination. Counter values are cache-line padded so that writers
// on distinct counters do not contend, and metadata publication uses
// release/acquire ordering so that a reader which observes a slot as
// allocated always sees a fully written type id, key, and label.
//
// The byte regions are borrowed, never owned. The caller guarantees they
// remain mapped and outlive the Manager and every Reader built over them.
package counters
