package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRepository(t *testing.T) {
	m := New()

	ok := model.NewRepositoryRecord(0, "google/guava")
	ok.Status = model.StatusSuccess
	ok.Project = string(model.ProjectMaven)
	ok.Time = model.SecondsOf(120)
	m.ObserveRepository(ok)

	failed := model.NewRepositoryRecord(1, "apache/commons-io")
	failed.Status = "timeout"
	m.ObserveRepository(failed)
	m.ObserveRepository(failed)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.repositories.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.repositories.WithLabelValues("timeout")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.buildDuration), "unknown times are not observed")
}

func TestRepositoryStatusesStartAtZero(t *testing.T) {
	m := New()
	assert.Equal(t, len(errs.Causes())+2, testutil.CollectAndCount(m.repositories))
	assert.Zero(t, testutil.ToFloat64(m.repositories.WithLabelValues("unzippable")))
}

func TestMethodsAndVerifications(t *testing.T) {
	m := New()
	m.MethodHarvested()
	m.MethodHarvested()
	m.MethodSkipped()
	m.ObserveVerification(model.OutcomePassed)
	m.ObserveVerification(model.OutcomeTimedOut)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.methods.WithLabelValues("harvested")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.methods.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("timed_out")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRepository(model.NewRepositoryRecord(0, "a/b"))
		m.MethodHarvested()
		m.MethodSkipped()
		m.ObserveVerification(model.OutcomeFailed)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.MethodHarvested()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `miner_methods_total{result="harvested"} 1`), body)
}
