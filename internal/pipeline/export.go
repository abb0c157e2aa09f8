package pipeline

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/seriesflow/pkg/compression"
	"github.com/ajitpratap0/seriesflow/pkg/dataset"
	"github.com/ajitpratap0/seriesflow/pkg/jsonutil"
	"github.com/ajitpratap0/seriesflow/pkg/logger"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

// Export writes every series in the dataset to w as JSON Lines, one series
// per line. The pass is lazy; a normalization failure stops the export and
// output buffered since the last flush is discarded, so a failed export
// never ends on a partial line.
func Export(ctx context.Context, ds *dataset.Dataset, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	written := 0

	it := ds.Iter()
	for {
		if err := ctx.Err(); err != nil {
			return written, sferrors.Wrap(err, sferrors.ErrorTypeInternal, "export cancelled")
		}
		s, err := it.Next()
		if errors.Is(err, dataset.Done) {
			break
		}
		if err != nil {
			return written, err
		}

		line, err := jsonutil.Marshal(s)
		if err != nil {
			return written, sferrors.Wrap(err, sferrors.ErrorTypeInternal, "encoding series").
				WithDetail("series", s.Key)
		}
		if _, err := bw.Write(line); err != nil {
			return written, sferrors.Wrap(err, sferrors.ErrorTypeFile, "writing series")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return written, sferrors.Wrap(err, sferrors.ErrorTypeFile, "writing series")
		}
		written++
	}

	if err := bw.Flush(); err != nil {
		return written, sferrors.Wrap(err, sferrors.ErrorTypeFile, "flushing export")
	}
	return written, nil
}

// ExportFile exports the dataset to path, compressing the output when the
// path carries a recognized compression extension (.gz, .zst, .lz4, ...).
func ExportFile(ctx context.Context, ds *dataset.Dataset, path string) (int, error) {
	log := logger.WithContext(ctx).With(zap.String("path", path))
	start := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return 0, sferrors.Wrap(err, sferrors.ErrorTypeFile, "creating export file").
			WithDetail("path", path)
	}

	cw, err := compression.NewWriter(f, compression.Detect(path))
	if err != nil {
		f.Close()
		return 0, err
	}

	written, exportErr := Export(ctx, ds, cw)
	if err := cw.Close(); err != nil && exportErr == nil {
		exportErr = sferrors.Wrap(err, sferrors.ErrorTypeFile, "closing export file")
	}
	if err := f.Close(); err != nil && exportErr == nil {
		exportErr = sferrors.Wrap(err, sferrors.ErrorTypeFile, "closing export file")
	}
	if exportErr != nil {
		return written, exportErr
	}

	log.Info("dataset exported",
		zap.Int("series", written),
		zap.Duration("elapsed", time.Since(start)))
	return written, nil
}
