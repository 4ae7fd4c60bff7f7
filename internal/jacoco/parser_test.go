package jacoco

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<!DOCTYPE report PUBLIC "-//JACOCO//DTD Report 1.1//EN" "report.dtd">
<report name="demo">
  <sessioninfo id="host-1" start="1" dump="2"/>
  <package name="com/example">
    <class name="com/example/Calculator" sourcefilename="Calculator.java">
      <method name="&lt;init&gt;" desc="()V" line="3">
        <counter type="INSTRUCTION" missed="0" covered="3"/>
        <counter type="LINE" missed="0" covered="1"/>
        <counter type="METHOD" missed="0" covered="1"/>
      </method>
      <method name="&lt;clinit&gt;" desc="()V" line="1">
        <counter type="INSTRUCTION" missed="0" covered="4"/>
        <counter type="METHOD" missed="0" covered="1"/>
      </method>
      <method name="add" desc="(II)I" line="10">
        <counter type="INSTRUCTION" missed="2" covered="8"/>
        <counter type="LINE" missed="1" covered="4"/>
        <counter type="METHOD" missed="0" covered="1"/>
      </method>
      <method name="unused" desc="()V" line="20">
        <counter type="INSTRUCTION" missed="5" covered="0"/>
        <counter type="LINE" missed="2" covered="0"/>
        <counter type="METHOD" missed="1" covered="0"/>
      </method>
      <method name="synthetic" desc="()V">
        <counter type="METHOD" missed="0" covered="1"/>
      </method>
      <counter type="METHOD" missed="1" covered="3"/>
    </class>
    <class name="com/example/Outer$Inner" sourcefilename="Outer.java">
      <method name="&lt;init&gt;" desc="()V" line="30">
        <counter type="METHOD" missed="0" covered="1"/>
      </method>
      <method name="noCounter" desc="()V" line="33">
        <counter type="LINE" missed="0" covered="1"/>
      </method>
    </class>
  </package>
</report>
`

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jacoco.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseReport(t *testing.T) {
	methods, err := ParseReport(writeReport(t, sampleReport))
	require.NoError(t, err)

	assert.Equal(t, []Method{
		{Package: "com/example", SourceFile: "Calculator.java", Line: 3, Name: "Calculator", InstructionCoverage: "100.00", LineCoverage: "100.00"},
		{Package: "com/example", SourceFile: "Calculator.java", Line: 10, Name: "add", InstructionCoverage: "80.00", LineCoverage: "80.00"},
		{Package: "com/example", SourceFile: "Outer.java", Line: 30, Name: "Inner", InstructionCoverage: "0.00", LineCoverage: "0.00"},
	}, methods)
}

func TestParseReportSingleMethod(t *testing.T) {
	report := `<report name="r"><package name="p"><class name="p/A" sourcefilename="A.java">
<method name="run" desc="()V" line="7">
<counter type="INSTRUCTION" missed="2" covered="8"/>
<counter type="LINE" missed="1" covered="4"/>
<counter type="METHOD" missed="0" covered="1"/>
</method></class></package></report>`

	methods, err := ParseReport(writeReport(t, report))
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "80.00", methods[0].InstructionCoverage)
	assert.Equal(t, "80.00", methods[0].LineCoverage)
}

func TestParseReportMalformed(t *testing.T) {
	methods, err := ParseReport(writeReport(t, "<report><package name=\"p\">"))
	require.NoError(t, err)
	assert.Empty(t, methods)
}

func TestParseReportMissingFile(t *testing.T) {
	_, err := ParseReport(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestCoverPercentage(t *testing.T) {
	tests := []struct {
		name     string
		counters []Counter
		want     string
	}{
		{name: "partial", counters: []Counter{{Type: CounterLine, Covered: 1, Missed: 2}}, want: "33.33"},
		{name: "full", counters: []Counter{{Type: CounterLine, Covered: 5}}, want: "100.00"},
		{name: "zero total", counters: []Counter{{Type: CounterLine}}, want: "0.00"},
		{name: "missing counter", counters: []Counter{{Type: CounterInstruction, Covered: 1}}, want: "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoverPercentage(tt.counters, CounterLine))
		})
	}
}

func TestSimpleClassName(t *testing.T) {
	assert.Equal(t, "Calculator", simpleClassName("com/example/Calculator"))
	assert.Equal(t, "Inner", simpleClassName("com/example/Outer$Inner"))
	assert.Equal(t, "Top", simpleClassName("Top"))
}
