// Package jsonutil provides JSON serialization for seriesflow with pooled
// buffers. It wraps goccy/go-json, which is wire-compatible with
// encoding/json but substantially faster for the record-per-line workloads
// the dataset export path produces.
package jsonutil

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// Marshal encodes v to JSON using a pooled buffer.
func Marshal(v interface{}) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	enc := gojson.NewEncoder(buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	// Encode appends a newline; strip it to match Marshal semantics
	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	result := make([]byte, len(out))
	copy(result, out)
	return result, nil
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// NewEncoder returns a streaming JSON encoder writing to w. Each Encode
// call emits one newline-terminated document, which is exactly the JSON
// Lines framing used for dataset export.
func NewEncoder(w io.Writer) *gojson.Encoder {
	return gojson.NewEncoder(w)
}

// NewDecoder returns a streaming JSON decoder reading from r.
func NewDecoder(r io.Reader) *gojson.Decoder {
	return gojson.NewDecoder(r)
}
