package diskindex

import (
	"errors"
	"fmt"
)

// ErrIndexCorrupt is the single fatal error the reader surfaces for
// any structural problem — truncated file, footer version or CRC32
// mismatch, unknown codec name, out-of-domain d-ness (spec.md section
// 4.7/7). The format carries no magic number, so none is checked.
// The underlying cause is always wrapped so callers can inspect it
// with errors.Is/As while still matching on this one sentinel.
var ErrIndexCorrupt = errors.New("diskindex: index corrupt")

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrIndexCorrupt}, args...)...)
}
