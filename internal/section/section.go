// Package section reads a named ATX heading section out of a Markdown document.
package section

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	reLevel      = `^#+ `
	headingStart = `(?mi)^%s(?:[^#]|$)`
	boundary     = `(?m)^#{2,%d} `

	// minBoundaryLevel is the shallowest heading that can end a section.
	// Level-1 headings never terminate a nested section.
	minBoundaryLevel = 2
)

var reHeadingLevel = regexp.MustCompile(reLevel)

// ErrMalformedHeading is returned when a heading reference does not start
// with one or more '#' characters followed by a space.
var ErrMalformedHeading = errors.New("missing markdown section level at the beginning of section name")

// Level returns the number of leading '#' characters of heading.
func Level(heading string) (int, error) {
	loc := reHeadingLevel.FindStringIndex(heading)
	if loc == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHeading, heading)
	}

	return loc[1] - 1, nil
}

func headingMarker(heading string) (*regexp.Regexp, error) {
	return regexp.Compile(fmt.Sprintf(headingStart, regexp.QuoteMeta(strings.TrimSpace(heading))))
}

func boundaryMarker(level int) (*regexp.Regexp, error) {
	if level < minBoundaryLevel {
		return nil, fmt.Errorf("no boundary below level %d", minBoundaryLevel)
	}

	return regexp.Compile(fmt.Sprintf(boundary, level))
}

func findSection(source []byte, heading string) (bool, int, int, error) {
	level, err := Level(heading)
	if err != nil {
		return false, 0, 0, err
	}

	reBegin, err := headingMarker(heading)
	if err != nil {
		return false, 0, 0, err
	}

	idxBegin := reBegin.FindIndex(source)
	if idxBegin == nil {
		return false, 0, 0, nil
	}

	begin := idxBegin[1]

	reEnd, err := boundaryMarker(level)
	if err != nil {
		return true, begin, len(source), nil
	}

	idxEnd := reEnd.FindIndex(source[begin:])
	if idxEnd == nil {
		return true, begin, len(source), nil
	}

	return true, begin, begin + idxEnd[0], nil
}

// Read returns the body of the section introduced by heading: everything
// after the heading line up to the next heading of level 2 through the
// heading's own level, or the end of the document. The heading is matched
// case-insensitively at the start of a line and the first occurrence wins.
//
// The bool return reports whether the heading was found. A heading without
// a leading "#+ " marker yields [ErrMalformedHeading].
func Read(source []byte, heading string) ([]byte, bool, error) {
	found, begin, end, err := findSection(source, heading)
	if err != nil {
		return nil, false, err
	}

	if !found {
		return nil, false, nil
	}

	return source[begin:end], true, nil
}

// Extract is the string form of [Read].
func Extract(document, heading string) (string, bool, error) {
	body, found, err := Read([]byte(document), heading)
	if err != nil || !found {
		return "", found, err
	}

	return string(body), true, nil
}

// Reference builds the heading reference for a heading of the given level and text.
func Reference(level int, text string) string {
	if level < 1 {
		level = 1
	}

	return strings.Repeat("#", level) + " " + strings.TrimSpace(text)
}

// Heading is an ATX heading found in a document.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Reference returns the heading as a section reference, e.g. "## Usage".
func (h Heading) Reference() string {
	return Reference(h.Level, h.Text)
}

func (h Heading) String() string {
	return h.Reference() + " (line " + strconv.Itoa(h.Line) + ")"
}
