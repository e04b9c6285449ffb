package scanner

import (
	"context"
	"errors"

	"github.com/lumipallolabs/diskscope/internal/model"
)

// ErrRootUnavailable indicates the scan root does not exist or cannot be
// opened. It is the only condition surfaced as a hard failure; everything
// below the root is recovered locally.
var ErrRootUnavailable = errors.New("scan root unavailable")

// ScanOptions configures a single scan request.
type ScanOptions struct {
	// FastMode estimates sizes for depth-truncated and very large
	// directories instead of walking them fully.
	FastMode bool
	// SkipHidden excludes entries with a leading dot or a platform
	// hidden attribute, along with their entire subtree.
	SkipHidden bool
}

// DefaultOptions returns the defaults used when the caller passes nothing.
func DefaultOptions() ScanOptions {
	return ScanOptions{
		FastMode:   true,
		SkipHidden: true,
	}
}

// Scanner is the interface for depth-bounded directory scanning.
type Scanner interface {
	// Scan walks root down to depth levels and returns the aggregated
	// tree. Progress is reported through rep, which may be nil.
	// A cancelled context yields ctx.Err() and no tree.
	Scan(ctx context.Context, root string, depth int, opts ScanOptions, rep *Reporter) (*model.DiskItem, error)
}
