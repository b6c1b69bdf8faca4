// Copyright 2024 The tinychain Authors
// This file is part of the tinychain library.
//
// The tinychain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tinychain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tinychain library. If not, see <http://www.gnu.org/licenses/>.

package proto

import (
	"encoding/binary"
	"fmt"
	"io"

	gproto "github.com/golang/protobuf/proto"
)

// Marshal encodes a protobuf message to bytes.
func Marshal(m gproto.Message) ([]byte, error) {
	return gproto.Marshal(m)
}

// Unmarshal decodes bytes into a protobuf message.
func Unmarshal(b []byte, m gproto.Message) error {
	return gproto.Unmarshal(b, m)
}

// WriteLengthPrefixed writes a 4-byte big-endian length prefix followed by
// the protobuf encoding of m, the wire framing used by the P2P layer's
// unary request/response channel.
func WriteLengthPrefixed(w io.Writer, m gproto.Message) error {
	b, err := Marshal(m)
	if err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ReadLengthPrefixed reads one length-prefixed protobuf message into m.
func ReadLengthPrefixed(r io.Reader, m gproto.Message, maxSize uint32) error {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return err
	}
	size := binary.BigEndian.Uint32(lenBuf[:])
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("proto: message size %d exceeds cap %d", size, maxSize)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	return Unmarshal(buf, m)
}
