package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// palette colors series whose CSV heading carries no color.
var palette = []string{
	"#a4633a",
	"#857625",
	"#51854d",
	"#2b7fa8",
	"#726cae",
	"#975f91",
	"#ff0000",
	"#00ff00",
	"#0000ff",
	"#f0f000",
}

// DecodeCSV reads a trace whose first column holds Unix millisecond
// timestamps and whose remaining columns each hold one series. Headings may
// carry a color in parentheses, e.g. "Joined (#3DC23F)".
//
// The input is taken as complete: a last row without a trailing newline is
// decoded too. Use DecodeGrowingCSV for a file that is still being written.
func DecodeCSV(r io.Reader) (Input, error) {
	return decodeCSV(NewLineReader(r).Finish())
}

// DecodeGrowingCSV is DecodeCSV for a file that is still being appended to.
// Only complete newline-terminated rows are consumed, so a partially
// written row is never parsed.
func DecodeGrowingCSV(r io.Reader) (Input, error) {
	return decodeCSV(NewLineReader(r))
}

func decodeCSV(lines *lineReader) (Input, error) {
	csvReader := csv.NewReader(lines)
	csvReader.TrimLeadingSpace = true
	headings, err := csvReader.Read()
	if err != nil {
		return Input{}, fmt.Errorf("%w: could not read csv headings: %w", ErrDecode, err)
	}
	if len(headings) < 2 {
		return Input{}, fmt.Errorf("%w: need a timestamp column and at least one series, got %d columns", ErrDecode, len(headings))
	}
	in := Input{
		Series: make([]InputSeries, 0, len(headings)-1),
	}
	for i, heading := range headings[1:] {
		name, hex := splitHeading(heading)
		if hex == "" {
			hex = palette[i%len(palette)]
		}
		in.Series = append(in.Series, InputSeries{
			Key:   "y" + strconv.Itoa(i),
			Name:  name,
			Color: hex,
		})
	}
	for line := 2; ; line++ {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return Input{}, fmt.Errorf("%w: line %d: %w", ErrDecode, line, err)
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return Input{}, fmt.Errorf("%w: line %d: failed parsing timestamp: %w", ErrDecode, line, err)
		}
		in.Timestamps = append(in.Timestamps, ts)
		for i := range in.Series {
			var v float64
			if cell := strings.TrimSpace(rec[i+1]); cell != "" {
				v, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return Input{}, fmt.Errorf("%w: line %d: failed parsing %q: %w", ErrDecode, line, cell, err)
				}
			}
			in.Series[i].Values = append(in.Series[i].Values, v)
		}
	}
	return in, nil
}

// LoadCSV decodes and validates a CSV trace.
func LoadCSV(r io.Reader) (*Dataset, error) {
	in, err := DecodeCSV(r)
	if err != nil {
		return nil, err
	}
	return New(in)
}

// LoadGrowingCSV decodes and validates a CSV trace that may end in a
// partially written row.
func LoadGrowingCSV(r io.Reader) (*Dataset, error) {
	in, err := DecodeGrowingCSV(r)
	if err != nil {
		return nil, err
	}
	return New(in)
}

func splitHeading(heading string) (name, hex string) {
	heading = strings.TrimSpace(heading)
	open := strings.LastIndex(heading, "(#")
	if open < 0 || !strings.HasSuffix(heading, ")") {
		return heading, ""
	}
	return strings.TrimSpace(heading[:open]), heading[open+1 : len(heading)-1]
}
