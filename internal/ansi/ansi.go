// Package ansi provides the SGR escape codes used for colored terminal output
// and a writer that removes them when color is unwanted.
package ansi

import (
	"io"
	"os"
	"regexp"
)

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

var sgr = regexp.MustCompile("\033\\[[0-9;]*m")

// Strip removes SGR sequences from s.
func Strip(s string) string {
	return sgr.ReplaceAllString(s, "")
}

// Disabled reports whether the NO_COLOR convention asks for plain output.
func Disabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// StripWriter forwards writes to W with SGR sequences removed. Each write
// must carry whole sequences.
type StripWriter struct {
	W io.Writer
}

// Write strips p and reports len(p) on success so callers see the bytes
// they handed in as consumed.
func (s StripWriter) Write(p []byte) (int, error) {
	if _, err := s.W.Write(sgr.ReplaceAll(p, nil)); err != nil {
		return 0, err
	}
	return len(p), nil
}
