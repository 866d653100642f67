package walker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nicolagi/dvcdata/fingerprint"
	"github.com/nicolagi/dvcdata/ignore"
)

// prunedDirNames are never descended into, regardless of the ignore
// predicate: they hold the tool's own bookkeeping or another version
// control system's, never tracked content.
var prunedDirNames = map[string]bool{
	".dvc": true,
	".git": true,
	".hg":  true,
}

// walkTree performs a parallel, bounded-concurrency traversal of root and
// returns one FileInfo per regular file that survives the ignore
// predicate. Symbolic links are followed; hidden entries are not skipped.
// The final ordering of the returned slice is unspecified — callers that
// need a deterministic order must sort it themselves.
func walkTree(ctx context.Context, root string, jobs int, ig ignore.Matcher) ([]FileInfo, error) {
	if jobs < 1 {
		jobs = 1
	}
	sem := make(chan struct{}, jobs)
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var files []FileInfo

	var recurse func(dir string) error
	recurse = func(dir string) error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("%w: read dir %q: %v", ErrWalk, dir, err)
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("%w: stat %q: %v", ErrWalk, full, err)
			}
			if info.Mode()&os.ModeSymlink != 0 {
				followed, err := os.Stat(full)
				if err != nil {
					return fmt.Errorf("%w: follow symlink %q: %v", ErrWalk, full, err)
				}
				info = followed
			}
			if info.IsDir() {
				if prunedDirNames[entry.Name()] {
					continue
				}
				if ig.MatchedPathOrAnyParents(full, true) {
					continue
				}
				sub := full
				g.Go(func() error {
					sem <- struct{}{}
					defer func() { <-sem }()
					return recurse(sub)
				})
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			if ig.MatchedPathOrAnyParents(full, false) {
				continue
			}
			fp, err := fingerprint.OfFile(info)
			if err != nil {
				return fmt.Errorf("%w: fingerprint %q: %v", ErrWalk, full, err)
			}
			rel, err := filepath.Rel(root, full)
			if err != nil {
				return fmt.Errorf("%w: relativize %q: %v", ErrPath, full, err)
			}
			mu.Lock()
			files = append(files, FileInfo{
				Path:        full,
				Relpath:     filepath.ToSlash(rel),
				Fingerprint: fp,
				Size:        info.Size(),
			})
			mu.Unlock()
		}
		return nil
	}

	g.Go(func() error { return recurse(root) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
