// Package jqpath evaluates ordered lists of jq paths against decoded JSON,
// returning the first one that yields a non-empty string. Providers put the
// same value under different keys depending on the wire shape, and these
// cascades keep the precedence between those keys in one place.
package jqpath

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Cascade is an ordered list of compiled jq paths.
type Cascade struct {
	paths []string
	codes []*gojq.Code
}

// Compile compiles each path in order.
func Compile(paths ...string) (*Cascade, error) {
	c := &Cascade{paths: paths, codes: make([]*gojq.Code, len(paths))}
	for i, p := range paths {
		query, err := gojq.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("failed to parse jq path %q: %w", p, err)
		}
		c.codes[i], err = gojq.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("failed to compile jq path %q: %w", p, err)
		}
	}
	return c, nil
}

// MustCompile is like Compile but panics on an invalid path.
func MustCompile(paths ...string) *Cascade {
	c, err := Compile(paths...)
	if err != nil {
		panic(err)
	}
	return c
}

// FirstString returns the first path that evaluates to a non-empty string.
// Paths that error (e.g. indexing into a string) or produce other types are skipped.
func (c *Cascade) FirstString(v any) (string, bool) {
	for _, code := range c.codes {
		iter := code.Run(v)
		out, ok := iter.Next()
		if !ok {
			continue
		}
		if _, isErr := out.(error); isErr {
			continue
		}
		if s, isStr := out.(string); isStr && s != "" {
			return s, true
		}
	}
	return "", false
}

// Paths returns the source paths in evaluation order.
func (c *Cascade) Paths() []string {
	return c.paths
}
