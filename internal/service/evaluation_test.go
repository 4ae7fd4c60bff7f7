package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coverage-miner/internal/metrics"
	"coverage-miner/internal/model"
	"coverage-miner/internal/repository"
	"coverage-miner/pkg/logger"
	"coverage-miner/test/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "int a() { <NEW_LINE>   return 1; <NEW_LINE> }", want: "int a() { return 1; }"},
		{in: "  return\t a;\n", want: "return a;"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in))
	}
}

func TestExactMatch(t *testing.T) {
	assert.True(t, ExactMatch("return a + b;", "return a+b ;"))
	assert.True(t, ExactMatch("if (x) { <NEW_LINE> y(); <NEW_LINE> }", "if (x) {y();}"))
	assert.False(t, ExactMatch("return a + b;", "return b + a;"))
}

// newTraceLookup records one successful repository with five traced methods.
func newTraceLookup(t *testing.T) repository.TraceLookup {
	t.Helper()
	ledger := repository.NewCSVLedger(filepath.Join(t.TempDir(), "resources"), logger.NewNopLogger())
	require.NoError(t, ledger.Reset())

	record := model.NewRepositoryRecord(0, "google/guava")
	record.Tag = "v31.0"
	record.Project = string(model.ProjectMaven)
	record.Root = ""
	record.Status = model.StatusSuccess
	record.Time = model.SecondsOf(100)
	require.NoError(t, ledger.RecordRepository(record))

	for id := int64(0); id < 5; id++ {
		method := &model.CoveredMethod{MethodID: id, RepoID: 0, File: "src/A.java", Start: 1, End: 4, InstructionCoverage: "100.00", LineCoverage: "100.00"}
		require.NoError(t, ledger.RecordMethod(method, &model.ExpectedCode{ID: id, Code: "int a() { return 1; }"}))
	}

	lookup, err := repository.LoadCSVTraceLookup(filepath.Dir(ledger.Path(repository.TracingFile)))
	require.NoError(t, err)
	return lookup
}

func writePredictions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predictions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVerifyPredictions(t *testing.T) {
	verifier := mocks.NewMockPredictionVerifier(gomock.NewController(t))
	svc := NewEvaluationService(verifier, newTraceLookup(t), metrics.New(), logger.NewNopLogger())

	predictions := writePredictions(t, "id,predicted_method,masked_code,predicted_code\n"+
		"0,int a() { return 1; },return 1;,return  1 ;\n"+
		"1,\"int a() { <NEW_LINE>   return 2; <NEW_LINE> }\",return 1;,return 2;\n"+
		"2,int a() { return 3; },return 1;,return 3;\n"+
		"3,int a() { while (true); },return 1;,while (true);\n"+
		"4,int a() { return 4; },return 1;,return 4;\n"+
		"99,int b() {},return 1;,x\n")

	outcomes := map[int64]model.VerificationOutcome{
		1: model.OutcomePassed,
		2: model.OutcomeFailed,
		3: model.OutcomeTimedOut,
	}
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Times(4).
		DoAndReturn(func(ctx context.Context, target *model.VerificationTarget, predicted string) (model.VerificationOutcome, error) {
			assert.Equal(t, "google/guava", target.RepoName)
			assert.Equal(t, model.SecondsOf(100), target.Time)
			if target.MethodID == 1 {
				assert.Equal(t, "int a() { return 2; }", predicted)
			}
			if target.MethodID == 4 {
				return "", errors.New("archive corrupted")
			}
			return outcomes[target.MethodID], nil
		})

	outputDir := filepath.Join(t.TempDir(), "out")
	report, err := svc.VerifyPredictions(context.Background(), predictions, outputDir)
	require.NoError(t, err)

	assert.Equal(t, &EvaluationReport{
		VerificationSummary: model.VerificationSummary{Total: 5, Passed: 2, Failed: 2, TimedOut: 1},
		ExactMatches:        1,
		Skipped:             1,
	}, report)

	log, err := os.ReadFile(filepath.Join(outputDir, "log.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,tests_passed,timeout\n"+
		"0,true,false\n"+
		"1,true,false\n"+
		"2,false,false\n"+
		"3,false,true\n"+
		"4,false,false\n", string(log))

	summary, err := os.ReadFile(filepath.Join(outputDir, "summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Terminated evaluation of the model.\n"+
		"\tExact Match:     20.00% (1 / 5)\n"+
		"\tTest Integrity:  50.00% (2 / 4)\n"+
		"\tTimeout:         20.00% (1 / 5)\n"+
		"\tSkipped:        1\n", string(summary))
}

func TestVerifyPredictionsEmpty(t *testing.T) {
	verifier := mocks.NewMockPredictionVerifier(gomock.NewController(t))
	svc := NewEvaluationService(verifier, newTraceLookup(t), nil, logger.NewNopLogger())

	outputDir := t.TempDir()
	report, err := svc.VerifyPredictions(context.Background(), writePredictions(t, "id,predicted_method,masked_code,predicted_code\n"), outputDir)
	require.NoError(t, err)
	assert.Zero(t, report.Total)

	summary, err := os.ReadFile(filepath.Join(outputDir, "summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, "No predictions to evaluate\n", string(summary))
}

func TestVerifyPredictionsInvalidFile(t *testing.T) {
	verifier := mocks.NewMockPredictionVerifier(gomock.NewController(t))
	svc := NewEvaluationService(verifier, newTraceLookup(t), nil, logger.NewNopLogger())

	outputDir := filepath.Join(t.TempDir(), "out")
	_, err := svc.VerifyPredictions(context.Background(), writePredictions(t, "id,prediction\n1,x\n"), outputDir)
	assert.ErrorIs(t, err, repository.ErrInvalidPredictions)
	assert.NoDirExists(t, outputDir)
}

func TestVerifyPredictionsCancelled(t *testing.T) {
	verifier := mocks.NewMockPredictionVerifier(gomock.NewController(t))
	svc := NewEvaluationService(verifier, newTraceLookup(t), nil, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *model.VerificationTarget, string) (model.VerificationOutcome, error) {
			cancel()
			return "", context.Canceled
		})

	predictions := writePredictions(t, "id,predicted_method,masked_code,predicted_code\n"+
		"0,int a() {},return 1;,return 2;\n"+
		"1,int a() {},return 1;,return 3;\n")
	report, err := svc.VerifyPredictions(ctx, predictions, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Total)
}

func TestEvaluationReportFormat(t *testing.T) {
	report := &EvaluationReport{
		VerificationSummary: model.VerificationSummary{Total: 3, Passed: 2, Failed: 1},
	}
	assert.Contains(t, report.Format(), "\tTest Integrity:  66.67% (2 / 3)\n")
	assert.NotContains(t, report.Format(), "Skipped")

	allTimedOut := &EvaluationReport{
		VerificationSummary: model.VerificationSummary{Total: 2, TimedOut: 2},
	}
	assert.Contains(t, allTimedOut.Format(), "\tTest Integrity:   0.00% (0 / 0)\n")
	assert.Contains(t, allTimedOut.Format(), "\tTimeout:        100.00% (2 / 2)\n")
}
