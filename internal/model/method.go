package model

// CoveredMethod is one row of tracing.csv: where a harvested method lives and how well it is covered.
type CoveredMethod struct {
	MethodID            int64  `csv:"method_id" json:"methodId"`
	RepoID              int64  `csv:"repo_id" json:"repoId"`
	File                string `csv:"file" json:"file"`
	Start               int    `csv:"start" json:"start"`
	End                 int    `csv:"end" json:"end"`
	InstructionCoverage string `csv:"instruction_coverage" json:"instructionCoverage"`
	LineCoverage        string `csv:"line_coverage" json:"lineCoverage"`
}

// ExpectedCode is one row of expected.csv: the isolated method text.
type ExpectedCode struct {
	ID   int64  `csv:"id" json:"id"`
	Code string `csv:"code" json:"code"`
}

// InputRepository is one row of the mining input CSV. Only name is read.
type InputRepository struct {
	Name string `csv:"name"`
}
