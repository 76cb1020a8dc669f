package debug

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withState restores the package switches after a test.
func withState(t *testing.T, env, verbose, quiet bool) *bytes.Buffer {
	t.Helper()
	oldEnabled, oldVerbose, oldQuiet := enabled, verboseMode, quietMode
	enabled, verboseMode, quietMode = env, verbose, quiet

	var buf bytes.Buffer
	restore := SetOutput(&buf)
	t.Cleanup(func() {
		restore()
		enabled, verboseMode, quietMode = oldEnabled, oldVerbose, oldQuiet
	})
	return &buf
}

func TestLogf(t *testing.T) {
	tests := []struct {
		name    string
		env     bool
		verbose bool
		want    string
	}{
		{"env enables", true, false, "skipping a.bin: binary\n"},
		{"verbose enables", false, true, "skipping a.bin: binary\n"},
		{"silent by default", false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := withState(t, tt.env, tt.verbose, false)
			assert.Equal(t, tt.env || tt.verbose, Enabled())
			Logf("skipping %s: %s\n", "a.bin", "binary")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogfConcurrentWorkers(t *testing.T) {
	buf := withState(t, true, false, false)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Logf("worker %02d done\n", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 16)
	for _, l := range lines {
		assert.Regexp(t, `^worker \d\d done$`, l)
	}
}

func TestQuiet(t *testing.T) {
	buf := withState(t, false, false, false)

	assert.False(t, IsQuiet())
	PrintNormal("Created %s\n", ".todo-scan.toml")
	PrintlnNormal("Detected:", "Go")
	assert.Equal(t, "Created .todo-scan.toml\nDetected: Go\n", buf.String())

	buf.Reset()
	SetQuiet(true)
	assert.True(t, IsQuiet())
	PrintNormal("Created %s\n", ".todo-scan.toml")
	PrintlnNormal("Detected:", "Go")
	assert.Empty(t, buf.String())
}

func TestSetOutputRestores(t *testing.T) {
	outer := withState(t, true, false, false)

	var inner bytes.Buffer
	restore := SetOutput(&inner)
	Logf("inner\n")
	restore()
	Logf("outer\n")

	assert.Equal(t, "inner\n", inner.String())
	assert.Equal(t, "outer\n", outer.String())
}
