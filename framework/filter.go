package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects cases by matching their full path, e.g. `async/c = "c"`. A case is
// selected if it matches at least one MustMatch pattern (or there are none) and no
// MustNotMatch pattern.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	path := id.String()
	if r.MustNotMatch.matchesPath(path) {
		return false
	}
	return len(r.MustMatch) == 0 || r.MustMatch.matchesPath(path)
}

// IsDefined is true if either list has any patterns.
func (r RegexFilters) IsDefined() bool {
	return len(r.MustMatch) != 0 || len(r.MustNotMatch) != 0
}

// RegexList is a flag.Value; each occurrence of the flag adds one pattern.
type RegexList []*regexp.Regexp

func (r RegexList) String() string {
	quoted := make([]string, 0, len(r))
	for _, p := range r.Patterns() {
		quoted = append(quoted, fmt.Sprintf("%q", p))
	}
	return strings.Join(quoted, " or ")
}

func (r *RegexList) Set(pattern string) error {
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid test path pattern %q: %w", pattern, err)
	}
	*r = append(*r, rx)
	return nil
}

// Patterns returns the source text of each pattern, in the order they were added.
func (r RegexList) Patterns() []string {
	ret := make([]string, 0, len(r))
	for _, rx := range r {
		ret = append(ret, rx.String())
	}
	return ret
}

func (r RegexList) matchesPath(path string) bool {
	for _, rx := range r {
		if rx.MatchString(path) {
			return true
		}
	}
	return false
}

// PrintFilterDescription tells the user which cases the filters will leave out. It prints
// nothing if there are no filters.
func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
	if len(filters.MustMatch) != 0 {
		fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
	}
	if len(filters.MustNotMatch) != 0 {
		fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(out)
}
