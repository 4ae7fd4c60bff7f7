package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/metrics"
	"coverage-miner/internal/model"
	"coverage-miner/internal/repository"
	"coverage-miner/internal/utils"
	"coverage-miner/pkg/logger"
)

const (
	logFile     = "log.csv"
	summaryFile = "summary.txt"
)

// EvaluationService verifies every prediction of a predictions file and writes log.csv and
// summary.txt into an output directory.
type EvaluationService interface {
	VerifyPredictions(ctx context.Context, predictionsCSV, outputDir string) (*EvaluationReport, error)
}

// EvaluationReport is the outcome of a VerifyPredictions run.
type EvaluationReport struct {
	model.VerificationSummary
	// ExactMatches counts predictions identical to the masked code up to whitespace.
	ExactMatches int
	// Skipped counts predictions with no matching tracing row.
	Skipped int
}

type evaluationService struct {
	verifier PredictionVerifier
	lookup   repository.TraceLookup
	metrics  *metrics.Metrics
	logger   logger.Logger
}

func NewEvaluationService(verifier PredictionVerifier, lookup repository.TraceLookup, metrics *metrics.Metrics, logger logger.Logger) EvaluationService {
	return &evaluationService{
		verifier: verifier,
		lookup:   lookup,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *evaluationService) VerifyPredictions(ctx context.Context, predictionsCSV, outputDir string) (*EvaluationReport, error) {
	predictions, err := repository.ReadPredictions(predictionsCSV)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(outputDir); err != nil {
		return nil, err
	}
	verificationLog, err := repository.CreateVerificationLog(filepath.Join(outputDir, logFile))
	if err != nil {
		return nil, err
	}

	report := &EvaluationReport{}
	for i, prediction := range predictions {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		target, err := s.lookup.Target(prediction.ID)
		if err != nil {
			if errors.Is(err, errs.ErrRecordNotFound) {
				s.logger.Warn("prediction %d has no tracing row, skipping", prediction.ID)
				report.Skipped++
				continue
			}
			return report, err
		}
		s.logger.Info("[%d/%d] verifying method %d of %s", i+1, len(predictions), prediction.ID, target.RepoName)

		outcome, exact, err := s.evaluate(ctx, target, prediction)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			s.logger.Error("failed to verify prediction %d: %v", prediction.ID, err)
			outcome = model.OutcomeFailed
		}
		if exact {
			report.ExactMatches++
		}
		report.Add(outcome)
		s.metrics.ObserveVerification(outcome)

		if err := verificationLog.Append(&model.VerificationLog{
			ID:          prediction.ID,
			TestsPassed: outcome == model.OutcomePassed,
			Timeout:     outcome == model.OutcomeTimedOut,
		}); err != nil {
			return report, err
		}
	}

	summary := report.Format()
	s.logger.Info("%s", summary)
	if err := os.WriteFile(filepath.Join(outputDir, summaryFile), []byte(summary), 0644); err != nil {
		return report, fmt.Errorf("failed to write summary: %w", err)
	}
	return report, nil
}

// evaluate short-circuits predictions equal to the masked code; anything else is rebuilt
// with the cleaned predicted method in place.
func (s *evaluationService) evaluate(ctx context.Context, target *model.VerificationTarget, prediction *model.Prediction) (model.VerificationOutcome, bool, error) {
	if ExactMatch(prediction.MaskedCode, prediction.PredictedCode) {
		return model.OutcomePassed, true, nil
	}
	outcome, err := s.verifier.Verify(ctx, target, Clean(prediction.PredictedMethod))
	return outcome, false, err
}

// Clean drops new line tokens and collapses whitespace runs into single spaces.
func Clean(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), model.NewLineToken, " ")
	return strings.Join(strings.Fields(code), " ")
}

// ExactMatch compares two snippets ignoring whitespace and new line tokens.
func ExactMatch(target, predicted string) bool {
	return strings.Join(strings.Fields(Clean(target)), "") == strings.Join(strings.Fields(Clean(predicted)), "")
}

// Format renders the report as written to summary.txt.
func (r *EvaluationReport) Format() string {
	if r.Total == 0 {
		return "No predictions to evaluate\n"
	}
	completed := r.Total - r.TimedOut
	var b strings.Builder
	b.WriteString("Terminated evaluation of the model.\n")
	fmt.Fprintf(&b, "\tExact Match:    %s\n", ratio(r.ExactMatches, r.Total))
	fmt.Fprintf(&b, "\tTest Integrity: %s\n", ratio(r.Passed, completed))
	fmt.Fprintf(&b, "\tTimeout:        %s\n", ratio(r.TimedOut, r.Total))
	if r.Skipped > 0 {
		fmt.Fprintf(&b, "\tSkipped:        %d\n", r.Skipped)
	}
	return b.String()
}

func ratio(count, total int) string {
	if total == 0 {
		return "  0.00% (0 / 0)"
	}
	return fmt.Sprintf("%6.2f%% (%d / %d)", float64(count)/float64(total)*100, count, total)
}
