package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogrusAdapter(t *testing.T) {
	assert.NotNil(t, NewLogrusAdapter("debug", "json"))
	assert.NotNil(t, NewLogrusAdapter("info", "text"))
	// Invalid level falls back to info instead of failing.
	assert.NotNil(t, NewLogrusAdapter("shout", "text"))
}

func TestLogrusAdapterChaining(t *testing.T) {
	logger := NewLogrusAdapter("debug", "text")

	chained := logger.
		WithError(errors.New("boom")).
		WithField("key", "value").
		WithFields(Field{Key: "a", Value: 1}, Field{Key: "b", Value: 2})

	assert.NotNil(t, chained)
	assert.NotSame(t, logger, chained)
}

func TestMockLoggerCapturesEntries(t *testing.T) {
	mock := &MockLogger{}

	mock.Info("hello", Field{Key: "k", Value: "v"})
	mock.WithError(errors.New("boom")).Error("failed")

	assert.True(t, mock.HasEntry("INFO", "hello"))
	assert.False(t, mock.HasEntry("ERROR", "hello"))

	// Derived loggers record into the parent's entry list.
	assert.True(t, mock.HasEntry("ERROR", "failed"))
	assert.Len(t, mock.Entries(), 2)
	assert.EqualError(t, mock.Entries()[1].Error, "boom")
}

func TestSetDefault(t *testing.T) {
	original := GetLogger()
	defer SetDefault(original)

	mock := &MockLogger{}
	SetDefault(mock)
	assert.Same(t, Logger(mock), GetLogger())

	// nil is ignored.
	SetDefault(nil)
	assert.Same(t, Logger(mock), GetLogger())
}
