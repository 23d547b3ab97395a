// Package json provides JSON serialization backed by goccy/go-json with
// pooled buffers for reading response bodies and writing output.
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

// maxPooledBufferSize caps the capacity of buffers returned to the pool
const maxPooledBufferSize = 1024 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a drop-in replacement for json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// NewEncoder returns an encoder writing to w. HTML escaping is disabled so
// text values are written as-is.
func NewEncoder(w io.Writer) *gojson.Encoder {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// Decode reads r to the end into a pooled buffer and unmarshals it into v.
// An empty input is io.ErrUnexpectedEOF.
func Decode(r io.Reader, v interface{}) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	if buf.Len() == 0 {
		return io.ErrUnexpectedEOF
	}
	return gojson.Unmarshal(buf.Bytes(), v)
}

// MarshalToWriter marshals v to w followed by a newline
func MarshalToWriter(w io.Writer, v interface{}) error {
	return NewEncoder(w).Encode(v)
}

// MarshalIndentToWriter writes the indented encoding of v to w followed by a newline
func MarshalIndentToWriter(w io.Writer, v interface{}, indent string) error {
	enc := NewEncoder(w)
	enc.SetIndent("", indent)
	return enc.Encode(v)
}
