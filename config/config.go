// Package config describes the handful of settings the core consumes
// from the surrounding tool's configuration layer: link preferences,
// object database location, worker count, and the fingerprint cache
// location. Merging these values from user- and repo-scoped INI files is
// the excluded CLI-side concern; this package only models the result.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config carries the external settings the core consumes: cache.type,
// cache.dir, core.checksum_jobs, core.no_scm, core.site_cache_dir.
type Config struct {
	// CacheTypes is the ordered link-strategy preference list consumed by
	// the materializer's Checkout path, e.g. ["reflink", "hardlink", "copy"].
	CacheTypes []string

	// CacheDir overrides the object database root.
	CacheDir string

	// ChecksumJobs bounds the walker's directory-walk and hashing worker
	// pool size. The materializer does not read it; it uses its own fixed
	// bound.
	ChecksumJobs int

	// NoSCM suppresses gitignore-stamping side effects a full tool would
	// otherwise perform when initializing a cache directory.
	NoSCM bool

	// SiteCacheDir overrides the fingerprint cache database location.
	SiteCacheDir string
}

const defaultChecksumJobs = 4

// Defaults returns the configuration the core falls back to when the
// caller supplies nothing.
func Defaults() *Config {
	return &Config{
		CacheTypes:   []string{"copy"},
		ChecksumJobs: defaultChecksumJobs,
	}
}

// Load reads a flat "key value" file (one setting per line: a key, then
// whitespace, then the remainder of the line as the value) and overlays
// the recognized keys onto Defaults(). Unknown keys are an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return load(f)
}

func load(r io.Reader) (*Config, error) {
	c := Defaults()
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		i := strings.IndexAny(line, " \t")
		if i == -1 {
			return nil, fmt.Errorf("config: no separator in %q", line)
		}
		key, val := line[:i], strings.TrimSpace(line[i:])
		switch key {
		case "cache-type":
			c.CacheTypes = strings.Split(val, ",")
		case "cache-dir":
			c.CacheDir = val
		case "checksum-jobs":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("config: checksum-jobs: %w", err)
			}
			c.ChecksumJobs = n
		case "no-scm":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return nil, fmt.Errorf("config: no-scm: %w", err)
			}
			c.NoSCM = b
		case "site-cache-dir":
			c.SiteCacheDir = val
		default:
			return nil, fmt.Errorf("config: unknown key %q", key)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("config: scan: %w", err)
	}
	return c, nil
}
