package splitter

import (
	"fmt"
	"io"
)

// Range is a half-open byte range [Start, End) of the input.
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

// Buffer size for scanning forward to a line terminator.
const scanBufferSize = 64 * 1024

// Split partitions size bytes of src into contiguous ranges of roughly
// splitSize bytes each, never splitting a line: every boundary except the
// last sits just after a '\n', and the final range absorbs any remainder.
// Concatenating the ranges reproduces the input exactly. An input smaller
// than splitSize yields a single range.
func Split(src io.ReaderAt, size, splitSize int64) ([]Range, error) {
	if splitSize <= 0 {
		return nil, fmt.Errorf("split size must be positive, got %d", splitSize)
	}
	if size == 0 {
		return []Range{{Start: 0, End: 0}}, nil
	}

	var splits []Range
	pos := int64(0)
	for pos < size {
		target := pos + splitSize
		if target >= size {
			splits = append(splits, Range{Start: pos, End: size})
			break
		}
		end, err := nextLineEnd(src, target, size)
		if err != nil {
			return nil, fmt.Errorf("align split at offset %d: %w", target, err)
		}
		splits = append(splits, Range{Start: pos, End: end})
		pos = end
	}
	return splits, nil
}

// nextLineEnd scans forward from off and returns the offset just past the
// next '\n', or size if the remainder has no line terminator.
func nextLineEnd(src io.ReaderAt, off, size int64) (int64, error) {
	buf := make([]byte, scanBufferSize)
	for off < size {
		n, err := src.ReadAt(buf, off)
		for i := 0; i < n; i++ {
			if buf[i] == '\n' {
				return off + int64(i) + 1, nil
			}
		}
		off += int64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	return size, nil
}
