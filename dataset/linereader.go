package dataset

import (
	"bufio"
	"io"
)

// lineReader is a specialized reader that ensures only entire newline-delimited lines are
// handed out. This is useful when decoding a dataset file that is being actively
// written to as a CSV, as a partially written row is never handed to the parser.
// Lines longer than the caller's buffer are returned across several reads.
//
// After Finish, an unterminated last line is handed out at EOF instead of
// being held back.
type lineReader struct {
	r *bufio.Reader
	// final releases the unterminated tail at EOF.
	final bool
	// partial accumulates an unterminated line until its newline arrives.
	partial []byte
	// pending holds the complete line currently being returned.
	pending []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

// Finish marks the input as complete.
func (l *lineReader) Finish() *lineReader {
	l.final = true
	return l
}

func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.pending) == 0 {
		data, err := l.r.ReadBytes('\n')
		if err != nil {
			l.partial = append(l.partial, data...)
			if !l.final || len(l.partial) == 0 {
				return 0, io.EOF
			}
			data = nil
		}
		l.pending = append(l.partial, data...)
		l.partial = nil
	}
	n := copy(b, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
