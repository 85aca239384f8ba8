// Package scanner walks a source tree, dispatches recognized manifest
// files to their ecosystem parsers, and collects the canonical records.
//
// Per-file failures are isolated: a malformed manifest contributes zero
// records and a counted failure, never aborting the scan. All counters
// live on the Scanner instance so concurrent scans do not share state.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/depscout/depscout/pkg/errors"
	"github.com/depscout/depscout/pkg/manifest"
	"github.com/depscout/depscout/pkg/manifest/cargo"
	"github.com/depscout/depscout/pkg/manifest/composer"
	"github.com/depscout/depscout/pkg/manifest/golang"
	"github.com/depscout/depscout/pkg/manifest/gradle"
	"github.com/depscout/depscout/pkg/manifest/maven"
	"github.com/depscout/depscout/pkg/manifest/npm"
	"github.com/depscout/depscout/pkg/manifest/nuget"
	"github.com/depscout/depscout/pkg/manifest/pip"
	"github.com/depscout/depscout/pkg/manifest/ruby"
)

// DefaultParsers returns one parser per supported ecosystem.
func DefaultParsers() []manifest.Parser {
	return []manifest.Parser{
		npm.Parser{},
		pip.Parser{},
		maven.Parser{},
		gradle.Parser{},
		composer.Parser{},
		cargo.Parser{},
		golang.Parser{},
		ruby.Parser{},
		nuget.Parser{},
	}
}

// Stats tracks per-scan counters for the aggregate report.
type Stats struct {
	RunID        string                     `json:"run_id"`
	FilesScanned int                        `json:"files_scanned"`
	FilesMatched int                        `json:"files_matched"`
	FilesParsed  int                        `json:"files_parsed"` // matched files yielding >=1 record
	FilesFailed  int                        `json:"files_failed"`
	ByEcosystem  map[manifest.Ecosystem]int `json:"records_by_ecosystem"`
	Failures     map[string]string          `json:"failures,omitempty"` // file path -> parse error
}

// Scanner extracts records from every recognized manifest under a root.
type Scanner struct {
	parsers []manifest.Parser
	logger  func(string, ...any)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithParsers overrides the default parser set.
func WithParsers(parsers []manifest.Parser) Option {
	return func(s *Scanner) { s.parsers = parsers }
}

// WithLogger sets a logging callback for per-file progress and failures.
func WithLogger(logger func(string, ...any)) Option {
	return func(s *Scanner) { s.logger = logger }
}

// New creates a Scanner with the default parsers and a no-op logger.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		parsers: DefaultParsers(),
		logger:  func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks root and extracts records from every recognized manifest.
// The returned stats are always non-nil, even on error. An unreadable
// root is the only fatal condition; everything below it degrades to
// per-file failure counts.
func (s *Scanner) Scan(ctx context.Context, root string) ([]manifest.Record, *Stats, error) {
	stats := &Stats{
		RunID:       uuid.NewString(),
		ByEcosystem: make(map[manifest.Ecosystem]int),
		Failures:    make(map[string]string),
	}

	if info, err := os.Stat(root); err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan root %s", root)
	} else if !info.IsDir() {
		return nil, stats, errors.New(errors.ErrCodeInvalidPath, "scan root %s is not a directory", root)
	}

	var records []manifest.Record
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger("walk failed: %s: %v", path, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || seen[path] {
			return nil
		}
		seen[path] = true
		stats.FilesScanned++

		parser, err := manifest.Detect(d.Name(), s.parsers...)
		if err != nil {
			return nil
		}
		stats.FilesMatched++

		recs := s.parseFile(parser, path, stats)
		if len(recs) > 0 {
			stats.FilesParsed++
			for _, r := range recs {
				stats.ByEcosystem[r.Ecosystem]++
			}
			records = append(records, recs...)
		}
		return nil
	})
	if err != nil {
		// cancelled mid-walk; records collected so far are still valid
		return records, stats, err
	}

	s.logger("extracted %d records from %d manifest files", len(records), stats.FilesMatched)
	return records, stats, nil
}

// parseFile reads and parses a single manifest, converting any failure
// into a counted, logged parse error.
func (s *Scanner) parseFile(parser manifest.Parser, path string, stats *Stats) []manifest.Record {
	data, err := os.ReadFile(path)
	if err != nil {
		s.fail(stats, path, err)
		return nil
	}

	recs, err := parser.Parse(path, data)
	if err != nil {
		s.fail(stats, path, err)
		return nil
	}

	// Drop records that would violate the non-empty-name invariant.
	kept := recs[:0]
	for _, r := range recs {
		if r.Name != "" {
			kept = append(kept, r)
		}
	}
	return kept
}

func (s *Scanner) fail(stats *Stats, path string, err error) {
	stats.FilesFailed++
	stats.Failures[path] = err.Error()
	s.logger("parse failed: %s: %v", path, err)
}
