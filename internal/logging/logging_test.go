package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsRouteToWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriters("render", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("frame %d", 2)
	l.Warnf("slow")
	l.Errorf("link failed")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[render] INFO: frame 2")
	assert.Contains(t, errOut.String(), "[render] WARN: slow")
	assert.Contains(t, errOut.String(), "[render] ERROR: link failed")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown")
	assert.Contains(t, out.String(), "DEBUG: shown")
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	assert.False(t, l.DebugEnabled())
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())

	d := New("", true)
	assert.Same(t, d, OrNop(d))
}
