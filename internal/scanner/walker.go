package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/lumipallolabs/diskscope/internal/logging"
	"github.com/lumipallolabs/diskscope/internal/model"
)

// Walker implements depth-bounded filesystem scanning. Sibling
// directories are scanned in parallel through a bounded worker group;
// aggregation is a plain sum, so worker completion order never affects
// the result.
type Walker struct {
	workers int
}

// NewWalker creates a walker with the given worker limit.
func NewWalker(workers int) *Walker {
	if workers < 1 {
		workers = 8
	}
	return &Walker{workers: workers}
}

// Scan walks root down to depth levels and returns the aggregated tree.
//
// Only an unreadable root fails the call; unreadable descendants are
// skipped with a best-effort size. Recursion depth is bounded by the
// depth counter, so the call stack never grows past the requested depth
// no matter how deep the filesystem is. A cancelled context unwinds
// without returning a partial tree.
func (w *Walker) Scan(ctx context.Context, root string, depth int, opts ScanOptions, rep *Reporter) (*model.DiskItem, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnavailable, root, err)
	}

	// Resolve a symlinked root so the tree is built under its real path
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnavailable, absRoot, err)
	}

	name := filepath.Base(absRoot)

	if !info.IsDir() {
		rep.Visit(absRoot)
		return &model.DiskItem{Name: name, Path: absRoot, Size: info.Size()}, nil
	}

	if depth <= 0 {
		// No descent allowed: a single leaf with an estimated size
		node := &model.DiskItem{
			Name:  name,
			Path:  absRoot,
			IsDir: true,
			Size:  truncatedDirSize(ctx, absRoot, opts),
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rep.Visit(absRoot)
		return node, nil
	}

	node, err := w.scanDir(ctx, absRoot, name, depth, opts, rep)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnavailable, absRoot, err)
	}
	return node, nil
}

// scanDir enumerates one directory, resolves each entry, and aggregates
// child sizes. It returns an error only when its own enumeration fails or
// the context is cancelled; failures further down are absorbed here.
func (w *Walker) scanDir(ctx context.Context, path, name string, depth int, opts ScanOptions, rep *Reporter) (*model.DiskItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	// Indexed by enumeration position so parallel completion keeps order
	children := make([]*model.DiskItem, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		entryName := entry.Name()
		childPath := filepath.Join(path, entryName)

		if opts.SkipHidden && IsHidden(childPath, entryName) {
			// Hidden subtrees contribute nothing to the aggregate
			continue
		}

		switch Classify(entry) {
		case KindFile, KindSymlink:
			size, err := entrySize(childPath, entry, opts)
			if err != nil {
				logging.Scanner.Printf("skipping %s: %v", childPath, err)
				continue
			}
			children[i] = &model.DiskItem{Name: entryName, Path: childPath, Size: size}
			rep.Visit(childPath)

		case KindDir:
			if depth <= 1 {
				// Depth boundary: directory becomes a leaf
				children[i] = &model.DiskItem{
					Name:  entryName,
					Path:  childPath,
					IsDir: true,
					Size:  truncatedDirSize(ctx, childPath, opts),
				}
				rep.Visit(childPath)
				continue
			}

			if opts.FastMode && IsLargeDir(childPath) {
				children[i] = &model.DiskItem{
					Name:  entryName,
					Path:  childPath,
					IsDir: true,
					Size:  EstimateDirSize(childPath),
				}
				rep.Visit(childPath)
				continue
			}

			idx := i
			g.Go(func() error {
				child, err := w.scanDir(gctx, childPath, entryName, depth-1, opts, rep)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					// Unreadable subdirectory: keep the node with a
					// best-effort size and no children
					logging.Scanner.Printf("unreadable directory %s: %v", childPath, err)
					child = &model.DiskItem{
						Name:  entryName,
						Path:  childPath,
						IsDir: true,
						Size:  EstimateDirSize(childPath),
					}
					rep.Visit(childPath)
				}
				children[idx] = child
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := &model.DiskItem{
		Name:     name,
		Path:     path,
		IsDir:    true,
		Children: compact(children),
	}
	node.Size = node.SumChildren()
	rep.Visit(path)
	return node, nil
}

// truncatedDirSize resolves a directory the walker will not descend into.
// Fast mode uses the cheap proxy estimate; comprehensive mode still walks
// the whole subtree for a true aggregate.
func truncatedDirSize(ctx context.Context, path string, opts ScanOptions) int64 {
	if opts.FastMode {
		return EstimateDirSize(path)
	}
	return DeepDirSize(ctx, path)
}

// compact drops the slots left empty by skipped entries.
func compact(items []*model.DiskItem) []*model.DiskItem {
	out := make([]*model.DiskItem, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}

// Ensure Walker implements Scanner
var _ Scanner = (*Walker)(nil)
