package callerid

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer

	SetLogOutput(&buf)
	t.Cleanup(func() {
		SetLogOutput(os.Stderr)
		_ = SetLogLevel("warn")
	})

	require.NoError(t, SetLogLevel("debug"))
	logger.Debug("hello", "n", 1)
	assert.Contains(t, buf.String(), "hello")

	buf.Reset()
	require.NoError(t, SetLogLevel("error"))
	logger.Warn("quiet")
	assert.Empty(t, buf.String())

	require.Error(t, SetLogLevel("loud"))
}
