package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	assert.Equal(t, Gzip, Detect("data.csv.gz"))
	assert.Equal(t, Zstd, Detect("data.jsonl.zst"))
	assert.Equal(t, LZ4, Detect("data.csv.lz4"))
	assert.Equal(t, Snappy, Detect("data.jsonl.snappy"))
	assert.Equal(t, S2, Detect("data.jsonl.s2"))
	assert.Equal(t, None, Detect("data.csv"))
}

func TestTrimExt(t *testing.T) {
	assert.Equal(t, "data.csv", TrimExt("data.csv.gz"))
	assert.Equal(t, "data.jsonl", TrimExt("data.jsonl.zst"))
	assert.Equal(t, "data.csv", TrimExt("data.csv"))
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	payload := bytes.Repeat([]byte("timestamp,target,item_id\n2021-01-01,1.5,A\n"), 200)

	for _, algo := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2} {
		t.Run(string(algo), func(t *testing.T) {
			var buf bytes.Buffer

			w, err := NewWriter(&buf, algo)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := NewReader(&buf, algo)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())

			assert.Equal(t, payload, got)
		})
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), Algorithm("brotli"))
	assert.Error(t, err)
	_, err = NewWriter(io.Discard, Algorithm("brotli"))
	assert.Error(t, err)
}
