// Package vcd writes signal traces in the Value Change Dump format (IEEE
// 1364), readable by waveform viewers like GTKWave.
//
package vcd

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Source is a set of signals to trace. *vsim.Store implements Source.
//
type Source interface {
	Len() int
	Name(n int) string
	Width(n int) uint
	Get(n int) uint64
}

// An Option configures a Writer.
//
type Option func(w *Writer)

// Comment adds a $comment section to the header.
//
func Comment(c string) Option {
	return func(w *Writer) { w.comment = c }
}

// Date adds a $date section to the header.
//
func Date(t time.Time) Option {
	return func(w *Writer) { w.date = t }
}

// Timescale sets the time unit. The default is "1ns".
//
func Timescale(ts string) Option {
	return func(w *Writer) { w.timescale = ts }
}

// Writer writes a VCD trace of a Source.
//
type Writer struct {
	w         *bufio.Writer
	c         io.Closer
	src       Source
	scope     string
	comment   string
	date      time.Time
	timescale string

	ids    []string
	last   []uint64
	t      uint64
	dumped bool
	closed bool
}

// NewWriter writes the VCD header for all signals in src, under a module scope
// named scope, and returns a Writer ready for Dump.
//
// If w is an io.Closer, it is closed by Close.
//
func NewWriter(w io.Writer, scope string, src Source, opts ...Option) (*Writer, error) {
	vw := &Writer{
		w:         bufio.NewWriter(w),
		src:       src,
		scope:     scope,
		timescale: "1ns",
	}
	if c, ok := w.(io.Closer); ok {
		vw.c = c
	}
	for _, o := range opts {
		o(vw)
	}
	n := src.Len()
	vw.ids = make([]string, n)
	vw.last = make([]uint64, n)
	for i := range vw.ids {
		vw.ids[i] = idCode(i)
	}
	if err := vw.header(); err != nil {
		return nil, errors.Wrap(err, "write vcd header")
	}
	return vw, nil
}

// idCode returns the short identifier of signal n, using printable ASCII
// characters from '!' to '~'.
//
func idCode(n int) string {
	var b []byte
	for {
		b = append(b, byte('!'+n%94))
		n /= 94
		if n == 0 {
			break
		}
		n--
	}
	return string(b)
}

func (w *Writer) header() error {
	var b strings.Builder
	if !w.date.IsZero() {
		b.WriteString("$date\n\t" + w.date.UTC().Format(time.RFC1123) + "\n$end\n")
	}
	b.WriteString("$version\n\tvsim\n$end\n")
	if w.comment != "" {
		b.WriteString("$comment\n\t" + w.comment + "\n$end\n")
	}
	b.WriteString("$timescale " + w.timescale + " $end\n")
	b.WriteString("$scope module " + w.scope + " $end\n")
	for i, id := range w.ids {
		b.WriteString("$var wire " + strconv.FormatUint(uint64(w.src.Width(i)), 10) + " " + id + " " + w.src.Name(i) + " $end\n")
	}
	b.WriteString("$upscope $end\n$enddefinitions $end\n")
	_, err := w.w.WriteString(b.String())
	return err
}

func (w *Writer) value(n int, v uint64) {
	if w.src.Width(n) == 1 {
		w.w.WriteByte(byte('0' + v&1))
		w.w.WriteString(w.ids[n])
		w.w.WriteByte('\n')
		return
	}
	w.w.WriteByte('b')
	w.w.WriteString(strconv.FormatUint(v, 2))
	w.w.WriteByte(' ')
	w.w.WriteString(w.ids[n])
	w.w.WriteByte('\n')
}

// Dump records the current values of all signals at time t. The first dump
// writes all values, later dumps only the values that changed. Times must be
// strictly increasing.
//
func (w *Writer) Dump(t uint64) error {
	if w.closed {
		return errors.New("vcd: dump on closed writer")
	}
	if w.dumped && t <= w.t {
		return errors.Errorf("vcd: time %d is not after %d", t, w.t)
	}
	w.w.WriteByte('#')
	w.w.WriteString(strconv.FormatUint(t, 10))
	w.w.WriteByte('\n')
	if !w.dumped {
		w.w.WriteString("$dumpvars\n")
	}
	for i := range w.ids {
		v := w.src.Get(i)
		if w.dumped && v == w.last[i] {
			continue
		}
		w.value(i, v)
		w.last[i] = v
	}
	if !w.dumped {
		w.w.WriteString("$end\n")
	}
	w.dumped = true
	w.t = t
	return errors.Wrap(w.w.Flush(), "vcd: dump")
}

// Close flushes the trace and closes the underlying writer if it is an
// io.Closer. Calling Close more than once has no effect.
//
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.w.Flush()
	if w.c != nil {
		if cerr := w.c.Close(); err == nil {
			err = cerr
		}
	}
	return errors.Wrap(err, "vcd: close")
}
