// Command dvcdata exercises the snapshot/checkout/diff core directly,
// without the repository discovery, ignore-file parsing, or Git
// integration a full tool would wrap around it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nicolagi/dvcdata/config"
	"github.com/nicolagi/dvcdata/diffengine"
	"github.com/nicolagi/dvcdata/ignore"
	"github.com/nicolagi/dvcdata/objects"
	"github.com/nicolagi/dvcdata/odb"
	"github.com/nicolagi/dvcdata/pointer"
	"github.com/nicolagi/dvcdata/state"
	"github.com/nicolagi/dvcdata/walker"
)

var globalContext struct {
	cacheDir     string
	siteCacheDir string
	logLevel     string
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&globalContext.cacheDir, "cache-dir", ".dvc/cache", "object database `directory`")
	fs.StringVar(&globalContext.siteCacheDir, "site-cache-dir", ".dvc/cache/state.db", "fingerprint cache `file`")
	var levels []string
	for _, l := range log.AllLevels {
		levels = append(levels, l.String())
	}
	fs.StringVar(&globalContext.logLevel, "verbosity", "warning", "sets the log `level`, among "+strings.Join(levels, ", "))
	return fs
}

func exitUsage(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	_, _ = fmt.Fprintf(os.Stderr, `Usage: %s COMMAND [ARGS]

Commands:

	snapshot PATH: hash PATH into the object database and print a pointer file
	checkout POINTER: materialize a pointer file's target into the working tree
	diff OLD-POINTER NEW-POINTER: print the structural diff between two pointer files
`, os.Args[0])
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		exitUsage("command name required")
	}

	fs := newFlagSet(os.Args[1])
	_ = fs.Parse(os.Args[2:])

	log.SetOutput(os.Stderr)
	ll, err := log.ParseLevel(globalContext.logLevel)
	if err != nil {
		log.Fatalf("could not parse log level %q: %v", globalContext.logLevel, err)
	}
	log.SetLevel(ll)

	cfg := config.Defaults()
	cfg.CacheDir = globalContext.cacheDir
	cfg.SiteCacheDir = globalContext.siteCacheDir

	o := odb.New(cfg.CacheDir)

	switch os.Args[1] {
	case "snapshot":
		runSnapshot(o, cfg, fs.Args())
	case "checkout":
		runCheckout(o, fs.Args())
	case "diff":
		runDiff(o, fs.Args())
	default:
		exitUsage(fmt.Sprintf("%q: command not recognized", os.Args[1]))
	}
}

func runSnapshot(o *odb.ODB, cfg *config.Config, args []string) {
	if len(args) != 1 {
		exitUsage("snapshot: exactly one path argument required")
	}
	root := args[0]

	st, err := state.Open(cfg.SiteCacheDir)
	if err != nil {
		log.Fatalf("could not open fingerprint cache: %v", err)
	}
	defer func() { _ = st.Close() }()

	obj, size, err := walker.Build(context.Background(), root, st, ignore.None{}, cfg.ChecksumJobs)
	if err != nil {
		log.Fatalf("could not build snapshot of %q: %v", root, err)
	}

	rootOID, err := o.Transfer(context.Background(), root, obj)
	if err != nil {
		log.Fatalf("could not transfer %q into object database: %v", root, err)
	}

	log.WithFields(log.Fields{"path": root, "oid": rootOID, "bytes": size}).Info("snapshot complete")

	ptr := pointerFor(rootOID, root, obj, size)
	if err := pointer.Write(os.Stdout, ptr); err != nil {
		log.Fatalf("could not write pointer: %v", err)
	}
}

func pointerFor(oid objects.OID, root string, obj objects.Object, size int64) pointer.Pointer {
	sz := uint64(size)
	var nfiles *uint64
	if t, ok := obj.(objects.Tree); ok {
		n := uint64(len(t.Entries))
		nfiles = &n
	}
	return pointer.New(oid, filepath.Base(root), &sz, nfiles)
}

func runCheckout(o *odb.ODB, args []string) {
	if len(args) != 1 {
		exitUsage("checkout: exactly one pointer-file argument required")
	}
	if err := o.Checkout(context.Background(), args[0], nil); err != nil {
		log.Fatalf("could not check out %q: %v", args[0], err)
	}
}

func runDiff(o *odb.ODB, args []string) {
	if len(args) != 2 {
		exitUsage("diff: exactly two pointer-file arguments required")
	}
	oldOID, err := readPointerOID(args[0])
	if err != nil {
		log.Fatalf("could not read %q: %v", args[0], err)
	}
	newOID, err := readPointerOID(args[1])
	if err != nil {
		log.Fatalf("could not read %q: %v", args[1], err)
	}
	result, err := diffengine.Diff(o, "", oldOID, newOID)
	if err != nil {
		log.Fatalf("could not diff: %v", err)
	}
	for _, e := range result.Entries {
		fmt.Printf("%s %s\n", e.Kind, e.Relpath)
	}
}

func readPointerOID(path string) (*objects.OID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	p, err := pointer.Read(f)
	if err != nil {
		return nil, err
	}
	oid := p.OID()
	return &oid, nil
}
