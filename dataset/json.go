package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

const (
	columnTypeX    = "x"
	columnTypeLine = "line"
)

// contestChart is the column-oriented chart layout used by the Telegram
// chart contest data files: every column starts with its key, followed by
// its samples.
type contestChart struct {
	Raw    [][]any           `json:"columns"`
	Types  map[string]string `json:"types"`
	Names  map[string]string `json:"names"`
	Colors map[string]string `json:"colors"`
}

// DecodeJSON reads either a single chart object or an array of them and
// returns one Input per chart, in file order.
func DecodeJSON(r io.Reader) ([]Input, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	raw = bytes.TrimSpace(raw)
	var charts []contestChart
	if len(raw) > 0 && raw[0] == '{' {
		var single contestChart
		if err := unmarshal(raw, &single); err != nil {
			return nil, err
		}
		charts = append(charts, single)
	} else if err := unmarshal(raw, &charts); err != nil {
		return nil, err
	}
	inputs := make([]Input, 0, len(charts))
	for i, c := range charts {
		in, err := c.input()
		if err != nil {
			return nil, fmt.Errorf("chart %d: %w", i, err)
		}
		in.Title = "Chart " + strconv.Itoa(i+1)
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// LoadJSON decodes and validates every chart in r.
func LoadJSON(r io.Reader) ([]*Dataset, error) {
	inputs, err := DecodeJSON(r)
	if err != nil {
		return nil, err
	}
	out := make([]*Dataset, 0, len(inputs))
	for _, in := range inputs {
		ds, err := New(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Title, err)
		}
		out = append(out, ds)
	}
	return out, nil
}

func unmarshal(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func (c contestChart) input() (Input, error) {
	var in Input
	for _, column := range c.Raw {
		if len(column) == 0 {
			continue
		}
		key, ok := column[0].(string)
		if !ok {
			return Input{}, fmt.Errorf("%w: column without a leading key", ErrDecode)
		}
		values := column[1:]
		switch c.Types[key] {
		case columnTypeX:
			in.Timestamps = make([]int64, 0, len(values))
			for _, v := range values {
				num, ok := v.(json.Number)
				if !ok {
					return Input{}, fmt.Errorf("%w: column %q holds %T", ErrDecode, key, v)
				}
				ts, err := num.Int64()
				if err != nil {
					return Input{}, fmt.Errorf("%w: column %q: %w", ErrDecode, key, err)
				}
				in.Timestamps = append(in.Timestamps, ts)
			}
		case columnTypeLine:
			series := InputSeries{
				Key:    key,
				Name:   c.Names[key],
				Color:  c.Colors[key],
				Values: make([]float64, 0, len(values)),
			}
			for _, v := range values {
				num, ok := v.(json.Number)
				if !ok {
					return Input{}, fmt.Errorf("%w: column %q holds %T", ErrDecode, key, v)
				}
				f, err := num.Float64()
				if err != nil {
					return Input{}, fmt.Errorf("%w: column %q: %w", ErrDecode, key, err)
				}
				series.Values = append(series.Values, f)
			}
			in.Series = append(in.Series, series)
		default:
			return Input{}, fmt.Errorf("%w: column %q has unsupported type %q", ErrDecode, key, c.Types[key])
		}
	}
	return in, nil
}
