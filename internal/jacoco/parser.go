// Package jacoco extracts covered methods from JaCoCo XML reports.
package jacoco

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	constructorName       = "<init>"
	staticInitializerName = "<clinit>"
)

// ParseReport returns every covered method of the report at path, in document order.
// A report that is not well-formed XML yields no methods and no error.
func ParseReport(path string) ([]Method, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	report, err := decodeReport(data)
	if err != nil {
		return []Method{}, nil
	}
	return CoveredMethods(report), nil
}

func decodeReport(data []byte) (*Report, error) {
	var report Report
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

// CoveredMethods flattens a decoded report. Static initializers are skipped, constructors
// take the simple class name, and methods without a line or a covered METHOD counter are
// dropped.
func CoveredMethods(report *Report) []Method {
	methods := []Method{}
	for _, pkg := range report.Packages {
		for _, class := range pkg.Classes {
			for _, m := range class.Methods {
				name := m.Name
				switch name {
				case staticInitializerName:
					continue
				case constructorName:
					name = simpleClassName(class.Name)
				}

				line, err := strconv.Atoi(strings.TrimSpace(m.Line))
				if err != nil {
					continue
				}
				methodCounter, ok := findCounter(m.Counters, CounterMethod)
				if !ok || methodCounter.Covered <= 0 {
					continue
				}

				methods = append(methods, Method{
					Package:             pkg.Name,
					SourceFile:          class.SourceFileName,
					Line:                line,
					Name:                name,
					InstructionCoverage: CoverPercentage(m.Counters, CounterInstruction),
					LineCoverage:        CoverPercentage(m.Counters, CounterLine),
				})
			}
		}
	}
	return methods
}

// CoverPercentage formats covered/(covered+missed) of the given counter type as a
// percentage with two decimals. A missing counter or an empty total gives "0.00".
func CoverPercentage(counters []Counter, counterType string) string {
	c, ok := findCounter(counters, counterType)
	if !ok || c.Covered+c.Missed <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(c.Covered)/float64(c.Covered+c.Missed)*100)
}

func findCounter(counters []Counter, counterType string) (Counter, bool) {
	for _, c := range counters {
		if c.Type == counterType {
			return c, true
		}
	}
	return Counter{}, false
}

// simpleClassName turns "com/example/Outer$Inner" into "Inner".
func simpleClassName(className string) string {
	if i := strings.LastIndex(className, "/"); i >= 0 {
		className = className[i+1:]
	}
	if i := strings.LastIndex(className, "$"); i >= 0 {
		className = className[i+1:]
	}
	return className
}
