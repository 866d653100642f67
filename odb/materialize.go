package odb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nicolagi/dvcdata/objects"
)

// defaultTransferJobs bounds how many files are copied into the object
// database concurrently when transferring a Tree, mirroring the bounded
// fan-out the walker uses for hashing.
const defaultTransferJobs = 8

// Transfer copies the given object's bytes from workingRoot into the
// object database and returns the object's root OID. Writing is always
// reflink-or-copy, never a hardlink or symlink, since the source is a
// working-tree file the caller may go on to modify. Destination existence
// short-circuits the copy: objects are immutable once written, so
// presence implies correct contents by construction.
func (o *ODB) Transfer(ctx context.Context, workingRoot string, obj objects.Object) (objects.OID, error) {
	switch v := obj.(type) {
	case objects.HashFile:
		if err := o.transferFile(workingRoot, v.Oid); err != nil {
			return "", err
		}
		return v.Oid, nil
	case objects.Tree:
		if err := o.transferTree(ctx, workingRoot, v); err != nil {
			return "", err
		}
		return v.OID(), nil
	default:
		return "", fmt.Errorf("odb: unknown object type %T", obj)
	}
}

func (o *ODB) transferFile(workingRoot string, oid objects.OID) error {
	dst := o.Path(oid)
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("odb: create object dir for %q: %w", oid, err)
	}
	if err := reflinkOrCopy(workingRoot, dst); err != nil {
		return fmt.Errorf("odb: transfer %q: %w", oid, err)
	}
	return os.Chmod(dst, 0o444)
}

func (o *ODB) transferTree(ctx context.Context, workingRoot string, t objects.Tree) error {
	g, _ := errgroup.WithContext(ctx)
	sem := make(chan struct{}, defaultTransferJobs)
	for _, e := range t.Entries {
		e := e
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			src := filepath.Join(workingRoot, filepath.FromSlash(e.Relpath))
			return o.transferFile(src, e.Oid)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("odb: transfer tree: %w", err)
	}
	dst := o.Path(t.OID())
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("odb: create object dir for %q: %w", t.OID(), err)
	}
	if err := os.WriteFile(dst, t.Serialized(), 0o644); err != nil {
		return fmt.Errorf("odb: write tree manifest %q: %w", t.OID(), err)
	}
	return os.Chmod(dst, 0o444)
}

// Materialize writes the object identified by obj into workingRoot,
// attempting each strategy in prefs in order for every destination file.
// A nil or empty prefs uses DefaultLinkPreferences. Parent directories are
// created as needed; any pre-existing file at a destination is removed
// first, making this safe to call repeatedly (idempotent re-checkout).
func (o *ODB) Materialize(ctx context.Context, workingRoot string, obj objects.Object, prefs []LinkStrategy) error {
	switch v := obj.(type) {
	case objects.HashFile:
		return o.materializeFile(v.Oid, workingRoot, prefs)
	case objects.Tree:
		return o.materializeTree(ctx, workingRoot, v, prefs)
	default:
		return fmt.Errorf("odb: unknown object type %T", obj)
	}
}

func (o *ODB) materializeFile(oid objects.OID, dst string, prefs []LinkStrategy) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("odb: create working dir for %q: %w", dst, err)
	}
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("odb: clear destination %q: %w", dst, err)
	}
	src := o.Path(oid)
	if err := materializeWithPreferences(src, dst, prefs); err != nil {
		log.WithFields(log.Fields{"oid": oid, "dst": dst}).WithError(err).Error("odb: materialize failed")
		return err
	}
	return nil
}

func (o *ODB) materializeTree(ctx context.Context, workingRoot string, t objects.Tree, prefs []LinkStrategy) error {
	g, _ := errgroup.WithContext(ctx)
	sem := make(chan struct{}, defaultTransferJobs)
	for _, e := range t.Entries {
		e := e
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			dst := filepath.Join(workingRoot, filepath.FromSlash(e.Relpath))
			return o.materializeFile(e.Oid, dst, prefs)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("odb: materialize tree: %w", err)
	}
	return nil
}
