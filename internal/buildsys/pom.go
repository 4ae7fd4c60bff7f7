package buildsys

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// pomSummary is what the adapter needs from a pom: artifact ids and a few anchor offsets.
// Element names are matched on their local part, so poms with or without the Maven
// namespace read the same.
type pomSummary struct {
	// Dependencies holds the artifactId of every dependency element, at any depth.
	Dependencies []string
	// Plugins holds the artifactId of every plugin element, at any depth.
	Plugins []string
	// BuildEnd is the offset of the project-level </build>, -1 when absent.
	BuildEnd int64
	// ProjectEnd is the offset of </project>, -1 when absent.
	ProjectEnd int64
	// Empty holds the self-closing project-level <build/> and every self-closing <plugins/>.
	Empty []emptyElement
}

// emptyElement is a self-closing element spanning content[Start:End].
type emptyElement struct {
	Start, End int64
}

func parsePom(content []byte) (*pomSummary, error) {
	summary := &pomSummary{BuildEnd: -1, ProjectEnd: -1}
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var stack []string
	var text strings.Builder
	var pending *emptyElement
	for {
		offset := decoder.InputOffset()
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		// the EndElement of a self-closing element is synthesized without reading input
		if _, ok := token.(xml.EndElement); ok && pending != nil && decoder.InputOffset() == pending.End {
			summary.Empty = append(summary.Empty, *pending)
		}
		pending = nil

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "plugins" ||
				(t.Name.Local == "build" && len(stack) == 1 && stack[0] == "project") {
				pending = &emptyElement{Start: offset, End: decoder.InputOffset()}
			}
			stack = append(stack, t.Name.Local)
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced pom")
			}
			name := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch {
			case name == "artifactId" && len(stack) > 0:
				value := strings.TrimSpace(text.String())
				switch stack[len(stack)-1] {
				case "dependency":
					summary.Dependencies = append(summary.Dependencies, value)
				case "plugin":
					summary.Plugins = append(summary.Plugins, value)
				}
			case name == "build" && len(stack) == 1 && stack[0] == "project":
				summary.BuildEnd = offset
			case name == "project" && len(stack) == 0:
				summary.ProjectEnd = offset
			}
			text.Reset()
		}
	}
	if len(stack) != 0 {
		return nil, errors.New("unexpected end of pom")
	}
	return summary, nil
}

// expandEmpty rewrites every self-closing element as an empty start/end pair, so <build/>
// becomes <build></build>. Attributes and namespace prefixes are kept.
func expandEmpty(content []byte, elements []emptyElement) []byte {
	out := make([]byte, 0, len(content)+32*len(elements))
	var last int64
	for _, e := range elements {
		tag := content[e.Start:e.End]
		name := bytes.TrimPrefix(tag, []byte("<"))
		if i := bytes.IndexAny(name, " \t\r\n/"); i >= 0 {
			name = name[:i]
		}
		open := bytes.TrimRight(bytes.TrimSuffix(tag, []byte("/>")), " \t\r\n")
		out = append(out, content[last:e.Start]...)
		out = append(out, open...)
		out = append(out, '>', '<', '/')
		out = append(out, name...)
		out = append(out, '>')
		last = e.End
	}
	return append(out, content[last:]...)
}

func anyContains(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(v, needle) {
			return true
		}
	}
	return false
}
