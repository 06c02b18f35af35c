package adk

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugfHonorsDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		DebugEnabled = false
	})

	DebugEnabled = false
	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	Infof("visible %d", 2)
	assert.Contains(t, buf.String(), "visible 2")

	buf.Reset()
	DebugEnabled = true
	Debugf("shown %s", "now")
	assert.Contains(t, buf.String(), "shown now")
}
