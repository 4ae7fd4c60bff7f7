package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	seq := NewSequence(0)
	assert.Equal(t, int64(0), seq.Next())
	assert.Equal(t, int64(1), seq.Next())
	assert.Equal(t, int64(2), seq.Peek())
	assert.Equal(t, int64(2), seq.Next())
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, "NaN", Seconds{}.String())
	assert.True(t, math.IsNaN(Seconds{}.Float()))
	assert.Equal(t, "42", SecondsOf(42).String())

	var s Seconds
	require.NoError(t, s.UnmarshalCSV("nan"))
	assert.False(t, s.Valid)
	require.NoError(t, s.UnmarshalCSV("100"))
	assert.Equal(t, SecondsOf(100), s)
	require.NoError(t, s.UnmarshalCSV("99.2"))
	assert.Equal(t, SecondsOf(100), s)
	assert.Error(t, s.UnmarshalCSV("soon"))
}

func TestReformatRepoName(t *testing.T) {
	assert.Equal(t, "repo__google_guava", ReformatRepoName("google/guava"))
}

func TestVerificationSummary(t *testing.T) {
	var s VerificationSummary
	s.Add(OutcomePassed)
	s.Add(OutcomePassed)
	s.Add(OutcomeFailed)
	s.Add(OutcomeTimedOut)

	assert.Equal(t, 4, s.Total)
	assert.InDelta(t, 66.67, s.Integrity(), 0.001)
	assert.InDelta(t, 25.0, s.TimeoutRate(), 0.001)

	var empty VerificationSummary
	assert.Zero(t, empty.Integrity())
	assert.Zero(t, empty.TimeoutRate())
}
