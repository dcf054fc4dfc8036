package dataset

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   Input
	}{
		{
			name: "too few samples",
			in: Input{
				Timestamps: []int64{1},
				Series:     []InputSeries{{Key: "y0", Values: []float64{1}}},
			},
		},
		{
			name: "length mismatch",
			in: Input{
				Timestamps: []int64{1, 2, 3},
				Series:     []InputSeries{{Key: "y0", Values: []float64{1, 2}}},
			},
		},
		{
			name: "bad color",
			in: Input{
				Timestamps: []int64{1, 2},
				Series:     []InputSeries{{Key: "y0", Color: "#zzzzzz", Values: []float64{1, 2}}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := New(tc.in)
			require.ErrorIs(t, err, ErrInvalidDataset)
			assert.Nil(t, ds)
		})
	}
}

func TestNewComputesExtrema(t *testing.T) {
	ds, err := New(Input{
		Timestamps: []int64{10, 20, 30, 40},
		Series: []InputSeries{
			{Key: "y0", Name: "Joined", Color: "#3DC23F", Values: []float64{4, -2, 9, 1}},
			{Key: "y1", Color: "#F34C44", Values: []float64{0, 0, 0, 0}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())
	require.Len(t, ds.Series, 2)

	lo, hi := ds.Series[0].Extrema()
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 9.0, hi)
	assert.Equal(t, color.NRGBA{R: 0x3d, G: 0xc2, B: 0x3f, A: 0xff}, ds.Series[0].Color)
	assert.Equal(t, "y1", ds.Series[1].Name, "name falls back to the key")
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	c, err = ParseColor("#11223380")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}, c)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
}

const contestJSON = `[
  {
    "columns": [
      ["x", 1542412800000, 1542499200000, 1542585600000],
      ["y0", 37, 20, 32],
      ["y1", 22, 12, 30]
    ],
    "types": {"y0": "line", "y1": "line", "x": "x"},
    "names": {"y0": "#0", "y1": "#1"},
    "colors": {"y0": "#3DC23F", "y1": "#F34C44"}
  },
  {
    "columns": [
      ["x", 1, 2],
      ["y0", 5, 6]
    ],
    "types": {"y0": "line", "x": "x"},
    "names": {"y0": "Views"},
    "colors": {"y0": "#108BE3"}
  }
]`

func TestLoadJSON(t *testing.T) {
	charts, err := LoadJSON(strings.NewReader(contestJSON))
	require.NoError(t, err)
	require.Len(t, charts, 2)

	first := charts[0]
	assert.Equal(t, []int64{1542412800000, 1542499200000, 1542585600000}, first.X)
	require.Len(t, first.Series, 2)
	assert.Equal(t, "#0", first.Series[0].Name)
	assert.Equal(t, []float64{37, 20, 32}, first.Series[0].Values)
	assert.Equal(t, "Chart 2", charts[1].Title)
}

func TestLoadJSONSingleObject(t *testing.T) {
	charts, err := LoadJSON(strings.NewReader(`{"columns":[["x",1,2],["y0",3,4]],"types":{"x":"x","y0":"line"},"names":{},"colors":{}}`))
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, "y0", charts[0].Series[0].Name)
}

func TestLoadJSONErrors(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`not json`))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = LoadJSON(strings.NewReader(`[{"columns":[["x",1,2],["y0",3]],"types":{"x":"x","y0":"line"}}]`))
	assert.ErrorIs(t, err, ErrInvalidDataset)

	_, err = LoadJSON(strings.NewReader(`[{"columns":[["x",1,2],["y0",3,4]],"types":{"x":"x","y0":"bar"}}]`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoadCSV(t *testing.T) {
	const trace = "timestamp_ms, Joined (#3DC23F), Left\n" +
		"1000, 1, 2\n" +
		"2000, 3,\n" +
		"3000, 5, 6\n"
	ds, err := LoadCSV(strings.NewReader(trace))
	require.NoError(t, err)
	assert.Equal(t, []int64{1000, 2000, 3000}, ds.X)
	require.Len(t, ds.Series, 2)
	assert.Equal(t, "Joined", ds.Series[0].Name)
	assert.Equal(t, color.NRGBA{R: 0x3d, G: 0xc2, B: 0x3f, A: 0xff}, ds.Series[0].Color)
	assert.Equal(t, "Left", ds.Series[1].Name)
	assert.Equal(t, []float64{2, 0, 6}, ds.Series[1].Values)
}

func TestLoadCSVWithoutTrailingNewline(t *testing.T) {
	ds, err := LoadCSV(strings.NewReader("ts, a\n1, 10\n2, 20\n3, 30"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ds.X)
	assert.Equal(t, []float64{10, 20, 30}, ds.Series[0].Values)
}

func TestLoadGrowingCSVSkipsPartialRow(t *testing.T) {
	ds, err := LoadGrowingCSV(strings.NewReader("ts, a\n1, 10\n2, 20\n3, 3"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ds.X, "the row being written is not consumed")
	assert.Equal(t, []float64{10, 20}, ds.Series[0].Values)
}

func TestLoadCSVBadTimestamp(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("ts, a\nnope, 1\n"))
	assert.ErrorIs(t, err, ErrDecode)
}
