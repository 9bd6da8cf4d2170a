package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"stylc/internal/config"
)

func TestLevels(t *testing.T) {
	noColor := false
	tests := []struct {
		level   string
		debug   bool
		info    bool
		enabled bool
	}{
		{config.LogNone, false, false, false},
		{config.LogNormal, false, true, true},
		{config.LogDebug, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var out, errOut bytes.Buffer
			log := New(Options{Level: tt.level, Out: &out, Err: &errOut, Color: &noColor})
			log.Debug("debug entry")
			log.Info("info entry")
			log.Warn("warn entry")
			_ = log.Sync()

			assert.Equal(t, tt.debug, bytes.Contains(out.Bytes(), []byte("debug entry")))
			assert.Equal(t, tt.info, bytes.Contains(out.Bytes(), []byte("info entry")))
			assert.Equal(t, tt.enabled, bytes.Contains(errOut.Bytes(), []byte("warn entry")))
			assert.NotContains(t, out.String(), "warn entry")
		})
	}
}

func TestNamedAndPlainLevel(t *testing.T) {
	noColor := false
	var out bytes.Buffer
	New(Options{Out: &out, Err: &out, Color: &noColor}).Named("driver").Info("hello")
	assert.Contains(t, out.String(), "INFO")
	assert.Contains(t, out.String(), "stylc.driver")
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestEnableColorOutput(t *testing.T) {
	assert.False(t, EnableColorOutput(&bytes.Buffer{}))
}
