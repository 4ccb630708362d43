package vcf

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Open opens a VCF file and decompresses it based on the file name suffix.
// ".gz" and ".bgz" files are read as gzip, which also covers bgzip output,
// and ".zst" files as zstd. Close the returned reader when done.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VCF file: %w", err)
	}

	var src io.Reader = f
	closers := []io.Closer{f}

	switch {
	case strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".bgz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		src = zr
		closers = append(closers, zr)
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		rc := dec.IOReadCloser()
		src = rc
		closers = append(closers, rc)
	}

	vr, err := NewReader(src)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	vr.closer = &multiCloser{closers: closers}
	return vr, nil
}

// multiCloser closes the decompressor before the underlying file.
type multiCloser struct {
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	return closeAll(m.closers)
}

func closeAll(closers []io.Closer) error {
	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
