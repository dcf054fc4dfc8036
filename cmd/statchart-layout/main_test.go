package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

// writeTrace writes a CSV trace of n daily samples with two series.
func writeTrace(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("timestamp_ms, joined users (#3DC23F), left users (#F34C44)\n")
	const day = 24 * 60 * 60 * 1000
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d, %d, %d\n", int64(1551398400000)+int64(i)*day, i, 10*i)
	}
	file := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, os.WriteFile(file, []byte(b.String()), 0o600))
	return file
}

func runLayout(t *testing.T, args ...string) (*report, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommand(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var rep report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rep))
	return &rep, nil
}

func TestLayoutDefaults(t *testing.T) {
	rep, err := runLayout(t, writeTrace(t, 100))
	require.NoError(t, err)

	assert.Equal(t, 100, rep.Samples)
	require.Len(t, rep.Series, 2)
	assert.Equal(t, "Joined Users", rep.Series[0].Name)
	assert.InDelta(t, 0.6, rep.Bounds[0], 1e-9)
	assert.InDelta(t, 1.0, rep.Bounds[1], 1e-9)
	assert.Len(t, rep.YTicks, 7)
	assert.NotEmpty(t, rep.XTicks)
	assert.Empty(t, rep.Animation, "the initial bounds need no rescale")
	assert.Nil(t, rep.Cursor)
}

func TestLayoutAnimatesToNewBounds(t *testing.T) {
	rep, err := runLayout(t, writeTrace(t, 100), "--lower", "0", "--upper", "0.25", "--cursor", "0.5", "--hide", "1")
	require.NoError(t, err)

	assert.True(t, rep.Series[1].Hidden)
	require.NotEmpty(t, rep.Animation)
	assert.Equal(t, rep.FrameRange, rep.Animation[len(rep.Animation)-1], "the last frame is the target")
	assert.Less(t, rep.FrameRange[1], 100.0, "only the small series is visible")

	require.NotNil(t, rep.Cursor)
	assert.Contains(t, rep.Cursor.Values, "joined users")
	assert.NotContains(t, rep.Cursor.Values, "left users")
}

func TestLayoutRejects(t *testing.T) {
	file := writeTrace(t, 10)
	_, err := runLayout(t, file, "--lower", "0.5", "--upper", "0.6")
	assert.ErrorContains(t, err, "rejected")

	_, err = runLayout(t, file, "--chart", "3")
	assert.Error(t, err)

	_, err = runLayout(t, file, "--hide", "7")
	assert.Error(t, err)

	_, err = runLayout(t, filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
