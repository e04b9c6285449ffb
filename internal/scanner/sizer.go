package scanner

import (
	"context"
	"io/fs"
	"os"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// largeDirThreshold is the entry count above which fast mode stops
// descending and estimates instead.
const largeDirThreshold = 1000

// entrySize resolves the logical size of a non-directory entry.
// Fast mode reads the size the enumeration already fetched; comprehensive
// mode forces a fresh Lstat so no cached metadata shortcut is taken.
// Symlinks are sized from their own link metadata either way.
func entrySize(path string, entry fs.DirEntry, opts ScanOptions) (int64, error) {
	if opts.FastMode {
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	}
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// IsLargeDir reports whether a directory holds at least largeDirThreshold
// entries, counting lazily so huge directories stay cheap to probe.
func IsLargeDir(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	names, _ := f.Readdirnames(largeDirThreshold)
	return len(names) >= largeDirThreshold
}

// EstimateDirSize approximates a directory's content size without a full
// walk. The filesystem's own entry size is used when it reports one;
// otherwise the first hundred entries are sampled and extrapolated over a
// capped entry count. The result is a loose proxy, not an exact aggregate:
// on many filesystems the directory's reported size is only the size of
// its entry-listing block.
func EstimateDirSize(path string) int64 {
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return info.Size()
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}

	var sampled int64
	sampleCount := 0
	for i, entry := range entries {
		if i >= 100 {
			break
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sampled += info.Size()
		sampleCount++
	}

	total := len(entries)
	if total > 10000 {
		total = 10000
	}
	if sampleCount > 0 && total > sampleCount {
		avg := float64(sampled) / float64(sampleCount)
		return int64(avg * float64(total))
	}
	return sampled
}

// DeepDirSize computes the true aggregate size of a subtree with a
// parallel walk, for comprehensive mode at the depth boundary. Symlinks
// are not followed and unreadable entries contribute zero.
func DeepDirSize(ctx context.Context, path string) int64 {
	var total atomic.Int64

	conf := &fastwalk.Config{Follow: false}
	_ = fastwalk.Walk(conf, path, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total.Add(info.Size())
		return nil
	})

	return total.Load()
}

// EstimateItems guesses how many entries a scan of path down to depth will
// visit, for progress percentages. Large directories get a flat guess so
// estimation never dominates the scan itself; the reporter revises the
// total upward if traversal overtakes it.
func EstimateItems(path string, depth int) int64 {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return 1
	}

	if IsLargeDir(path) {
		return 5000
	}

	var count int64 = 1
	entries, err := os.ReadDir(path)
	if err != nil {
		return count
	}
	for _, entry := range entries {
		count++
		if depth > 0 && entry.IsDir() {
			// Cap recursion so the estimate stays responsive
			sub := 0
			if depth <= 2 {
				sub = depth - 1
			}
			count += EstimateItems(path+string(os.PathSeparator)+entry.Name(), sub)
		}
	}
	return count
}
