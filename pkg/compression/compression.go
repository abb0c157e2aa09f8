// Package compression provides transparent stream compression for seriesflow
// file loading and dataset export. Algorithms are selected explicitly or
// detected from a file extension (.gz, .zst, .lz4, .snappy, .s2).
//
// Speed (fastest to slowest): LZ4 > Snappy/S2 > Zstd > Gzip
// Compression ratio (best to worst): Zstd > Gzip > Snappy/S2 > LZ4
package compression

import (
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

var extensions = map[string]Algorithm{
	".gz":     Gzip,
	".gzip":   Gzip,
	".zst":    Zstd,
	".zstd":   Zstd,
	".lz4":    LZ4,
	".snappy": Snappy,
	".sz":     Snappy,
	".s2":     S2,
}

// Detect returns the algorithm implied by the file extension, or None.
func Detect(path string) Algorithm {
	if algo, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return algo
	}
	return None
}

// TrimExt strips a recognized compression extension from a path, so format
// detection can look at the inner extension ("data.csv.gz" -> "data.csv").
func TrimExt(path string) string {
	if _, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

type nopReadCloser struct{ io.Reader }

func (nopReadCloser) Close() error { return nil }

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// NewReader wraps r with a decompressing reader for the given algorithm.
// The caller owns closing the returned reader; closing it does not close r.
func NewReader(r io.Reader, algo Algorithm) (io.ReadCloser, error) {
	switch algo {
	case None, "":
		return nopReadCloser{r}, nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to open gzip stream")
		}
		return gr, nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to open zstd stream")
		}
		return readCloser{Reader: zr, close: func() error { zr.Close(); return nil }}, nil
	case Snappy:
		return nopReadCloser{snappy.NewReader(r)}, nil
	case S2:
		return nopReadCloser{s2.NewReader(r)}, nil
	case LZ4:
		return nopReadCloser{lz4.NewReader(r)}, nil
	}
	return nil, sferrors.Newf(sferrors.ErrorTypeConfig,
		"unknown compression algorithm %q", algo)
}

// NewWriter wraps w with a compressing writer for the given algorithm.
// The returned writer must be closed to flush trailing blocks; closing it
// does not close w.
func NewWriter(w io.Writer, algo Algorithm) (io.WriteCloser, error) {
	switch algo {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to open zstd writer")
		}
		return zw, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		return s2.NewWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, sferrors.Newf(sferrors.ErrorTypeConfig,
		"unknown compression algorithm %q", algo)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
