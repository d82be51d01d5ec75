package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	SetLevel(WARN)
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	Errorln("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "also shown")
	assert.False(t, IsInfoEnabled())
	assert.True(t, IsWarnEnabled())
	assert.Equal(t, WARN, GetCurrentLevel())
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"trace", TRACE},
		{"DEBUG", DEBUG},
		{"Info", INFO},
		{"warn", WARN},
		{"ERROR", ERROR},
		{"", DEBUG},
		{"bogus", DEBUG},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFromEnv(tt.in))
		})
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})
	SetLevel(DEBUG)

	Named("http").Info("listening")
	assert.Contains(t, buf.String(), "gateway.http: listening")
}
