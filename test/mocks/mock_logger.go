package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger records log calls. Tests that do not care about logging can call AllowAll.
type MockLogger struct {
	mock.Mock
}

// AllowAll accepts any call at any level.
func (m *MockLogger) AllowAll() *MockLogger {
	for _, level := range []string{"Debug", "Info", "Warn", "Error", "Fatal"} {
		m.On(level, mock.Anything, mock.Anything).Maybe().Return()
	}
	return m
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(format string, args ...any) {
	m.Called(format, args)
}
