package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nicolagi/dvcdata/fingerprint"
	"github.com/nicolagi/dvcdata/hash"
	"github.com/nicolagi/dvcdata/ignore"
	"github.com/nicolagi/dvcdata/objects"
	"github.com/nicolagi/dvcdata/state"
)

// ErrWalk is the sentinel for directory-entry iteration failures
// (permission errors, or a race where an entry disappears mid-walk).
var ErrWalk = errors.New("walker: walk error")

// ErrPath is the sentinel for path handling failures: non-UTF-8 input,
// an absolute path where a relative one is required, or a failed
// strip-prefix/relativize operation.
var ErrPath = errors.New("walker: path error")

// defaultJobs is used when the caller passes jobs <= 0.
const defaultJobs = 4

// Build snapshots root into either a HashFile (root is a regular file) or
// a Tree (root is a directory), consulting st to skip re-hashing files
// whose fingerprint hasn't changed since it was last recorded. st may be
// nil, in which case every file is hashed unconditionally and nothing is
// persisted — the state-less mode described for this builder, which must
// produce byte-identical results to the cached mode.
func Build(ctx context.Context, root string, st *state.Cache, ig ignore.Matcher, jobs int) (objects.Object, int64, error) {
	if ig == nil {
		ig = ignore.None{}
	}
	if jobs <= 0 {
		jobs = defaultJobs
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: absolute path of %q: %v", ErrPath, root, err)
	}
	absRoot = filepath.Clean(absRoot)

	fi, err := os.Stat(absRoot)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: stat %q: %v", ErrWalk, absRoot, err)
	}
	if ig.MatchedPathOrAnyParents(absRoot, fi.IsDir()) {
		return nil, 0, fmt.Errorf("%w: %q is ignored", ErrPath, absRoot)
	}

	if fi.Mode().IsRegular() {
		return buildFile(absRoot, fi, st)
	}
	return buildTree(ctx, absRoot, st, ig, jobs)
}

func buildFile(path string, fi os.FileInfo, st *state.Cache) (objects.Object, int64, error) {
	fp, err := fingerprint.OfFile(fi)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: fingerprint %q: %v", ErrWalk, path, err)
	}
	if st != nil {
		if v, ok, err := st.Get(path); err != nil {
			return nil, 0, fmt.Errorf("%w: lookup %q: %v", state.ErrState, path, err)
		} else if ok && v.Checksum == fp {
			return objects.HashFile{Oid: v.OID()}, int64(v.Size), nil
		}
	}
	oid, size, err := hash.File(path)
	if err != nil {
		return nil, 0, err
	}
	if st != nil {
		v := state.Value{Checksum: fp, Size: uint64(size), HashInfo: state.HashInfo{MD5: oid}}
		if err := st.Set(path, v); err != nil {
			return nil, 0, fmt.Errorf("%w: persist %q: %v", state.ErrState, path, err)
		}
	}
	return objects.HashFile{Oid: objects.FileOID(oid)}, size, nil
}

func buildTree(ctx context.Context, root string, st *state.Cache, ig ignore.Matcher, jobs int) (objects.Object, int64, error) {
	infos, err := walkTree(ctx, root, jobs, ig)
	if err != nil {
		return nil, 0, err
	}

	cached := make(map[string]state.Value)
	if st != nil {
		if empty, err := st.IsEmpty(); err != nil {
			return nil, 0, fmt.Errorf("%w: is-empty probe: %v", state.ErrState, err)
		} else if !empty {
			paths := make([]string, len(infos))
			for i, fi := range infos {
				paths[i] = fi.Path
			}
			cached, err = st.GetMany(paths)
			if err != nil {
				return nil, 0, fmt.Errorf("%w: get-many: %v", state.ErrState, err)
			}
		}
	}

	var hit, miss []FileInfo
	for _, fi := range infos {
		if v, ok := cached[fi.Path]; ok && v.Checksum == fi.Fingerprint {
			hit = append(hit, fi)
		} else {
			miss = append(miss, fi)
		}
	}

	hashed, err := hashFiles(ctx, miss, jobs)
	if err != nil {
		return nil, 0, err
	}

	if st != nil && len(hashed) > 0 {
		toPersist := make(map[string]state.Value, len(hashed))
		for _, fi := range miss {
			oid := hashed[fi.Path]
			toPersist[fi.Path] = state.Value{
				Checksum: fi.Fingerprint,
				Size:     uint64(fi.Size),
				HashInfo: state.HashInfo{MD5: oid},
			}
		}
		if err := st.SetMany(toPersist); err != nil {
			return nil, 0, fmt.Errorf("%w: set-many: %v", state.ErrState, err)
		}
	}

	entries := make([]objects.TreeEntry, 0, len(infos))
	var total int64
	for _, fi := range hit {
		entries = append(entries, objects.TreeEntry{Relpath: fi.Relpath, Oid: cached[fi.Path].OID()})
		total += fi.Size
	}
	for _, fi := range miss {
		entries = append(entries, objects.TreeEntry{Relpath: fi.Relpath, Oid: objects.FileOID(hashed[fi.Path])})
		total += fi.Size
	}

	tree, err := objects.NewTree(entries)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: assemble tree: %v", ErrPath, err)
	}
	return tree, total, nil
}

// hashFiles hashes every file in infos in parallel, bounded by jobs, and
// returns a path -> digest map.
func hashFiles(ctx context.Context, infos []FileInfo, jobs int) (map[string]string, error) {
	if len(infos) == 0 {
		return nil, nil
	}
	g, _ := errgroup.WithContext(ctx)
	sem := make(chan struct{}, jobs)
	var mu sync.Mutex
	result := make(map[string]string, len(infos))
	for _, fi := range infos {
		fi := fi
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			oid, _, err := hash.File(fi.Path)
			if err != nil {
				return err
			}
			mu.Lock()
			result[fi.Path] = oid
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
