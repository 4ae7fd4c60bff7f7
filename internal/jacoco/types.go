package jacoco

import "encoding/xml"

// Counter types used by the parser.
const (
	CounterMethod      = "METHOD"
	CounterInstruction = "INSTRUCTION"
	CounterLine        = "LINE"
)

// Report is the root of a JaCoCo XML report. Only direct package children are read.
type Report struct {
	XMLName  xml.Name         `xml:"report"`
	Name     string           `xml:"name,attr"`
	Packages []PackageElement `xml:"package"`
}

type PackageElement struct {
	Name    string         `xml:"name,attr"`
	Classes []ClassElement `xml:"class"`
}

type ClassElement struct {
	Name           string          `xml:"name,attr"`
	SourceFileName string          `xml:"sourcefilename,attr"`
	Methods        []MethodElement `xml:"method"`
}

type MethodElement struct {
	Name     string    `xml:"name,attr"`
	Desc     string    `xml:"desc,attr"`
	Line     string    `xml:"line,attr"`
	Counters []Counter `xml:"counter"`
}

// Counter is one coverage counter of a method.
type Counter struct {
	Type    string `xml:"type,attr"`
	Covered int    `xml:"covered,attr"`
	Missed  int    `xml:"missed,attr"`
}

// Method is a method exercised by at least one test.
type Method struct {
	// Package is the slash-separated package path, e.g. "com/example".
	Package    string
	SourceFile string
	// Line is the first line JaCoCo attributes to the method.
	Line                int
	Name                string
	InstructionCoverage string
	LineCoverage        string
}
