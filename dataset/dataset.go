package dataset

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var (
	// ErrInvalidDataset is returned when the series of a dataset disagree in
	// length with its timestamps, or when there are too few samples to draw.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrDecode is returned when an input file cannot be parsed.
	ErrDecode = errors.New("failed decoding dataset")
)

// MinSamples is the minimum number of timestamps a dataset must hold to be
// rendered as a line.
const MinSamples = 2

// Series represents one named column of a dataset.
type Series struct {
	Key    string
	Name   string
	Color  color.NRGBA
	Values []float64
	// Hidden reports whether the series is excluded from the visible set.
	// It is the only field that changes after construction.
	Hidden bool

	rangeMin, rangeMax float64
}

// Extrema returns the smallest and largest value of the whole series.
func (s *Series) Extrema() (min, max float64) {
	return s.rangeMin, s.rangeMax
}

// Dataset holds the timestamps shared by every series along with the series
// themselves. The timestamps are Unix milliseconds.
type Dataset struct {
	Title  string
	X      []int64
	Series []*Series
}

// Len returns the number of samples in the dataset.
func (d *Dataset) Len() int {
	return len(d.X)
}

// Input is the parsed, format independent shape of a dataset.
type Input struct {
	Title      string
	Timestamps []int64
	Series     []InputSeries
}

// InputSeries describes one column of an Input. Color is a hex string such
// as "#3DC23F".
type InputSeries struct {
	Key    string
	Name   string
	Color  string
	Values []float64
}

// New validates the input and builds an immutable Dataset from it. No
// dataset is returned if any series disagrees in length with the
// timestamps.
func New(in Input) (*Dataset, error) {
	n := len(in.Timestamps)
	if n < MinSamples {
		return nil, fmt.Errorf("%w: %d timestamps, need at least %d", ErrInvalidDataset, n, MinSamples)
	}
	ds := &Dataset{
		Title:  in.Title,
		X:      append([]int64(nil), in.Timestamps...),
		Series: make([]*Series, 0, len(in.Series)),
	}
	for i, s := range in.Series {
		if len(s.Values) != n {
			return nil, fmt.Errorf("%w: series %q has %d values, want %d", ErrInvalidDataset, s.Key, len(s.Values), n)
		}
		c, err := ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: series %q: %w", ErrInvalidDataset, s.Key, err)
		}
		name := s.Name
		if name == "" {
			name = s.Key
		}
		key := s.Key
		if key == "" {
			key = "y" + strconv.Itoa(i)
		}
		series := &Series{
			Key:    key,
			Name:   name,
			Color:  c,
			Values: append([]float64(nil), s.Values...),
		}
		series.rangeMin, series.rangeMax = series.Values[0], series.Values[0]
		for _, v := range series.Values {
			series.rangeMin = min(series.rangeMin, v)
			series.rangeMax = max(series.rangeMax, v)
		}
		ds.Series = append(ds.Series, series)
	}
	return ds, nil
}

// ParseColor parses "#rrggbb", "#rrggbbaa" or the short "#rgb" form. An
// empty string yields opaque black.
func ParseColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(hex) {
	case 0:
		return color.NRGBA{A: 0xff}, nil
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("malformed color %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("malformed color %q: %w", hex, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
