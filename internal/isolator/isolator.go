// Package isolator cuts a single Java method out of a source file by counting braces.
package isolator

import (
	"errors"
	"fmt"
	"strings"

	"coverage-miner/internal/model"
)

// MaxSegments is the exclusive upper bound on the number of lines of an isolated method.
const MaxSegments = 50

var lineSeparator = " " + model.NewLineToken + " "

// ErrParsing marks a method that could not be isolated. The method is skipped.
var ErrParsing = errors.New("method parsing failed")

// Isolated is a method body with its span in the file. End is exclusive.
type Isolated struct {
	Code  string
	Start int
	End   int
}

// Isolate locates method name around the 0-based line hint. It walks backwards from hint to
// the nearest line mentioning name, then forward until the braces opened from there balance.
// Lines are trimmed and joined with the new line token.
func Isolate(lines []string, hint int, name string) (*Isolated, error) {
	start := hint
	for {
		if start < 0 || start >= len(lines) {
			return nil, fmt.Errorf("%w: %q not found above line %d", ErrParsing, name, hint)
		}
		if strings.Contains(lines[start], name) {
			break
		}
		start--
	}

	var body []string
	depth := 0
	started := false
	end := start
	for depth != 0 || !started {
		if end >= len(lines) {
			return nil, fmt.Errorf("%w: %q is not closed before end of file", ErrParsing, name)
		}
		line := strings.TrimSpace(lines[end])
		for _, c := range line {
			switch c {
			case '{':
				started = true
				depth++
			case '}':
				depth--
			}
		}
		body = append(body, line)
		end++
	}

	code := strings.Join(body, lineSeparator)
	if err := Validate(code); err != nil {
		return nil, err
	}
	return &Isolated{Code: code, Start: start, End: end}, nil
}

// Validate checks that code has balanced braces, ends with a closing brace and spans fewer
// than MaxSegments lines.
func Validate(code string) error {
	if strings.Count(code, "{") != strings.Count(code, "}") {
		return fmt.Errorf("%w: bracket mismatch", ErrParsing)
	}
	if !strings.HasSuffix(code, "}") {
		return fmt.Errorf("%w: missing closing bracket", ErrParsing)
	}
	if len(strings.Split(code, model.NewLineToken)) >= MaxSegments {
		return fmt.Errorf("%w: method too long", ErrParsing)
	}
	return nil
}

// SplitLines splits file content into lines without their terminators. A trailing line
// terminator does not produce an empty last line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
