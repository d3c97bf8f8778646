// Package directive finds @include directives in Markdown documents and
// splices their replacement content back into the source.
package directive

import (
	"bytes"
)

// Walker is a callback invoked for each directive found in a document. The
// walker may call [Directive.Replace]; replaced directives are written back
// into the document by [Walk].
type Walker func(d *Directive) error

// Replace sets the text substituted for the directive line. The line's own
// newline is kept.
func (d *Directive) Replace(content string) {
	d.Content = []byte(content)
	d.replaced = true
}

// Replaced reports whether [Directive.Replace] was called.
func (d *Directive) Replaced() bool {
	return d.replaced
}

type change struct {
	start, stop int
	directive   *Directive
}

// Walk calls walker for every line that starts with @include and is not
// inside a fenced code block. Lines that fail to parse are still passed to
// walker with Err set. If the walker replaces any directive, Walk returns
// true and the updated document. Otherwise it returns false and a nil slice.
func Walk(source []byte, env Env, walker Walker) (bool, []byte, error) {
	fenced := fencedLines(source)

	var changes []*change

	offset := 0
	for lineNo := 1; offset <= len(source); lineNo++ {
		stop := bytes.IndexByte(source[offset:], '\n')
		if stop < 0 {
			stop = len(source)
		} else {
			stop += offset
		}

		line := string(source[offset:stop])

		if IsDirective(line) && !fenced[lineNo] {
			d, err := Parse(line, env)
			if err != nil {
				d = &Directive{Raw: line, Err: err}
			}

			d.Line = lineNo

			if err := walker(d); err != nil {
				return false, nil, err
			}

			if d.replaced {
				changes = append(changes, &change{start: offset, stop: stop, directive: d})
			}
		}

		offset = stop + 1
	}

	if len(changes) == 0 {
		return false, nil, nil
	}

	return true, applyChanges(changes, source), nil
}

// Collect returns every directive of the document without modifying it.
func Collect(source []byte, env Env) ([]*Directive, error) {
	var directives []*Directive

	_, _, err := Walk(source, env, func(d *Directive) error {
		directives = append(directives, d)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return directives, nil
}

func applyChanges(changes []*change, source []byte) []byte {
	resSize := len(source)

	for _, change := range changes {
		resSize += len(change.directive.Content) - (change.stop - change.start)
	}

	result := make([]byte, resSize)

	var srcIdx, resIdx int

	for _, change := range changes {
		copy(result[resIdx:], source[srcIdx:change.start])
		resIdx += change.start - srcIdx

		copy(result[resIdx:], change.directive.Content)
		resIdx += len(change.directive.Content)

		srcIdx = change.stop
	}

	copy(result[resIdx:], source[srcIdx:])

	return result
}
