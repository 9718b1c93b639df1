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

import "encoding/binary"

// Typed key layouts for the opaque key window of a metadata record. Each
// layout's encoded form, together with the 16-byte record header, must fit
// within two cache lines; the layout guard test asserts this for every
// layout defined here.

// recordHeaderLength is the fixed prefix of a metadata record before the
// key window: state, type id, and reuse deadline.
const recordHeaderLength = 16

// StreamPositionKey identifies a position counter on one stream of a
// channel. Encoded little-endian as registrationID:i64, sessionID:i32,
// streamID:i32, channelLength:i32, channel bytes.
type StreamPositionKey struct {
	RegistrationID int64
	SessionID      int32
	StreamID       int32
	Channel        [92]byte
	ChannelLength  int32
}

// AppendTo encodes the key into buf, which must be at least MaxKeyLength
// long. Returns the number of bytes written.
func (k *StreamPositionKey) AppendTo(buf []byte) int {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(k.RegistrationID))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(k.SessionID))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(k.StreamID))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(k.ChannelLength))
	n := copy(buf[20:], k.Channel[:k.ChannelLength])
	return 20 + n
}

// ChannelEndpointKey identifies a channel endpoint status counter. Encoded
// little-endian as channelLength:i32, channel bytes.
type ChannelEndpointKey struct {
	Channel       [104]byte
	ChannelLength int32
}

// AppendTo encodes the key into buf, which must be at least MaxKeyLength
// long. Returns the number of bytes written.
func (k *ChannelEndpointKey) AppendTo(buf []byte) int {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(k.ChannelLength))
	n := copy(buf[4:], k.Channel[:k.ChannelLength])
	return 4 + n
}

// LocalSocketAddrKey ties a local socket address counter back to the
// channel status counter it belongs to. Encoded little-endian as
// channelStatusID:i32, addressLength:i32, address bytes.
type LocalSocketAddrKey struct {
	ChannelStatusID int32
	Address         [48]byte
	AddressLength   int32
}

// AppendTo encodes the key into buf, which must be at least MaxKeyLength
// long. Returns the number of bytes written.
func (k *LocalSocketAddrKey) AppendTo(buf []byte) int {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(k.ChannelStatusID))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(k.AddressLength))
	n := copy(buf[8:], k.Address[:k.AddressLength])
	return 8 + n
}
