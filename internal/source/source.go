// Package source reads log lines from files or standard input
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"proxy-log-analyzer/internal/config"
)

// StdinPattern selects standard input explicitly
const StdinPattern = "-"

// Reader delivers the non-empty lines of one or more inputs in order
type Reader struct {
	inputs  []io.Reader
	closers []io.Closer
	paths   []string
	err     error
}

// NewReader wraps a single input such as standard input
func NewReader(r io.Reader) *Reader {
	return &Reader{inputs: []io.Reader{r}}
}

// Open resolves file paths and glob patterns (doublestar syntax, ** allowed)
// and opens every matching file. With no patterns, or the single pattern "-",
// stdin is read instead. Files are read in pattern order, and matches of one
// pattern in lexical order.
func Open(patterns []string, stdin io.Reader) (*Reader, error) {
	if len(patterns) == 0 || (len(patterns) == 1 && patterns[0] == StdinPattern) {
		return NewReader(stdin), nil
	}

	paths, err := expand(patterns)
	if err != nil {
		return nil, err
	}

	r := &Reader{paths: paths}
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("log file '%s' cannot be opened: %w", path, err)
		}
		r.inputs = append(r.inputs, file)
		r.closers = append(r.closers, file)
	}

	return r, nil
}

// expand turns patterns into concrete file paths
func expand(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		if !isGlob(pattern) {
			paths = append(paths, pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern '%s': %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files matched the pattern '%s'", pattern)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

// isGlob reports whether pattern contains glob meta characters
func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Paths returns the files being read; empty when reading stdin
func (r *Reader) Paths() []string {
	return r.paths
}

// Lines yields every non-empty line with its line terminator removed.
// Inputs are read one after another; the last line of one file never joins
// the first line of the next. Reading stops at the first error, see Err.
func (r *Reader) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, input := range r.inputs {
			scanner := bufio.NewScanner(input)
			scanner.Buffer(make([]byte, 0, 64*1024), config.MaxLineLength)

			for scanner.Scan() {
				line := scanner.Text()
				if line == "" {
					continue
				}
				if !yield(line) {
					return
				}
			}

			if err := scanner.Err(); err != nil {
				r.err = err
				return
			}
		}
	}
}

// Err returns the first read error encountered by Lines
func (r *Reader) Err() error {
	return r.err
}

// Close closes every opened file
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
