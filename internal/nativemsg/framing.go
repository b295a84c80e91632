// Package nativemsg implements the browser native-messaging frame format:
// a 4-byte little-endian length prefix followed by that many bytes of UTF-8
// JSON, in both directions, exactly one request and one response per process.
package nativemsg

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// maxFrameSize caps inbound frames. Chrome itself limits host-bound messages
// to 4 GiB and extension-bound to 1 MiB; anything near that here is garbage.
const maxFrameSize = 64 << 20

// Read consumes one framed message. Short reads are accumulated until the
// declared length is satisfied; if the stream ends first, the bytes gathered
// so far are returned as a best-effort payload for the caller to parse.
func Read(r io.Reader) (json.RawMessage, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("nativemsg: read length prefix: %w", err)
	}

	length := binary.LittleEndian.Uint32(header[:])
	if length > maxFrameSize {
		return nil, fmt.Errorf("nativemsg: declared frame length %d exceeds limit", length)
	}

	payload := make([]byte, length)
	n, err := io.ReadFull(r, payload)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return payload[:n], nil
	}
	if err != nil {
		return nil, fmt.Errorf("nativemsg: read payload: %w", err)
	}
	return payload, nil
}

// Write emits one framed message as a single write: prefix and payload
// together, so a reader on the other side never sees a bare header.
func Write(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("nativemsg: marshal payload: %w", err)
	}

	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("nativemsg: write frame: %w", err)
	}
	return nil
}
