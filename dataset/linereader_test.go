package dataset

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func expectToRead(t *testing.T, reader io.Reader, expected []byte) {
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	if err != nil {
		t.Errorf("expected read to succeed, got: %v", err)
	} else if !bytes.Equal(scratch[:n], expected) {
		t.Errorf("expected read to yield %q, got: %q", expected, scratch[:n])
	}
}

func expectReadEOF(t *testing.T, reader io.Reader) {
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected read to give EOF, got: %v", err)
	} else if n != 0 {
		t.Errorf("expected read to read nothing, read %q", scratch[:n])
	}
}

func TestLineReader(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	first := "hello\n"
	second := "there\n"
	buf.WriteString(first)
	buf.WriteString(second)
	l := NewLineReader(buf)
	expectToRead(t, l, []byte(first))
	expectToRead(t, l, []byte(second))
	third := "unterminated"
	buf.WriteString(third)
	expectReadEOF(t, l)
	fourth := "line\n"
	buf.WriteString(fourth)
	expectToRead(t, l, []byte(third+fourth))
	buf.WriteString("foo")
	expectReadEOF(t, l)
	buf.WriteString("bar")
	expectReadEOF(t, l)
	buf.WriteString("bin\nbaz")
	expectToRead(t, l, []byte("foobarbin\n"))
}

func TestLineReaderLongLine(t *testing.T) {
	long := strings.Repeat("x", 3000) + "\n"
	l := NewLineReader(strings.NewReader(long))
	var got []byte
	var scratch [1024]byte
	for {
		n, err := l.Read(scratch[:])
		got = append(got, scratch[:n]...)
		if err != nil {
			break
		}
	}
	if string(got) != long {
		t.Errorf("expected %d bytes back, got %d", len(long), len(got))
	}
}

func TestLineReaderFinish(t *testing.T) {
	l := NewLineReader(strings.NewReader("hello\nthere")).Finish()
	expectToRead(t, l, []byte("hello\n"))
	expectToRead(t, l, []byte("there"))
	expectReadEOF(t, l)

	empty := NewLineReader(strings.NewReader("")).Finish()
	expectReadEOF(t, empty)
}
