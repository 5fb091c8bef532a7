package observability

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLoggerDefaultsToWarn(t *testing.T) {
	before := log.Default().GetLevel()

	l := Logger(nil)
	assert.Equal(t, log.WarnLevel, l.GetLevel())
	assert.Equal(t, before, log.Default().GetLevel())

	custom := log.New(io.Discard)
	assert.Same(t, custom, Logger(custom))
}
