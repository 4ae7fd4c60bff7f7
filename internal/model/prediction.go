package model

import "math"

// Prediction is one row of a model's predictions CSV.
type Prediction struct {
	ID              int64  `csv:"id"`
	PredictedMethod string `csv:"predicted_method"`
	MaskedCode      string `csv:"masked_code"`
	PredictedCode   string `csv:"predicted_code"`
}

// VerificationTarget is everything needed to rebuild a repository with one method replaced.
type VerificationTarget struct {
	MethodID int64
	RepoName string
	Root     string
	File     string
	Start    int
	End      int
	Project  ProjectKind
	Time     Seconds
}

// ArchiveName is the key of the durable archive holding the repository.
func (t *VerificationTarget) ArchiveName() string {
	return ReformatRepoName(t.RepoName)
}

// VerificationOutcome classifies a rebuild with a predicted method in place.
type VerificationOutcome string

const (
	OutcomePassed   VerificationOutcome = "passed"
	OutcomeFailed   VerificationOutcome = "failed"
	OutcomeTimedOut VerificationOutcome = "timed_out"
)

// VerificationLog is one row of the verification log.csv.
type VerificationLog struct {
	ID          int64 `csv:"id"`
	TestsPassed bool  `csv:"tests_passed"`
	Timeout     bool  `csv:"timeout"`
}

// VerificationSummary aggregates the outcomes of a verification run.
type VerificationSummary struct {
	Total    int
	Passed   int
	Failed   int
	TimedOut int
}

// Add counts one outcome.
func (s *VerificationSummary) Add(outcome VerificationOutcome) {
	s.Total++
	switch outcome {
	case OutcomePassed:
		s.Passed++
	case OutcomeFailed:
		s.Failed++
	case OutcomeTimedOut:
		s.TimedOut++
	}
}

// Integrity is the share of passing predictions among those that did not time out, in percent.
func (s *VerificationSummary) Integrity() float64 {
	completed := s.Total - s.TimedOut
	if completed == 0 {
		return 0
	}
	return math.Round(float64(s.Passed)/float64(completed)*10000) / 100
}

// TimeoutRate is the share of timed out predictions, in percent.
func (s *VerificationSummary) TimeoutRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return math.Round(float64(s.TimedOut)/float64(s.Total)*10000) / 100
}
