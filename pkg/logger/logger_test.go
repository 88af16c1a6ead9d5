package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogUsableBeforeSetup(t *testing.T) {
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() {
		Info("message before setup", "key", "value")
		Warn("warning before setup")
	})
}

func TestSetupReplacesLogger(t *testing.T) {
	before := Log
	Setup("development")
	assert.NotNil(t, Log)
	assert.NotSame(t, before, Log)
}
