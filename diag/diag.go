// Package diag renders decoded frames as text for a serial console and
// reads that text back.
//
// Each frame is two lines: a header with the decoded record and a line
// with the raw samples.
//
//	frame n:67 code:0x20df10ef s1:225 s2:112 stop:14 short:14 long:42 coding:1 bits:32
//	 225 112 14 14 14 42 ...
package diag

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sparques/irblaster"
)

const headerPrefix = "frame "

// ErrFormat is returned for lines that do not parse.
var ErrFormat = errors.New("diag: malformed frame")

// Frame is one dumped frame.
type Frame struct {
	Record  irblaster.Record
	Samples irblaster.Samples
}

// Write renders r and the samples it was decoded from.
func Write(w io.Writer, r irblaster.Record, ss irblaster.Samples) error {
	n := ss.Len()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%sn:%d code:0x%08x s1:%d s2:%d stop:%d short:%d long:%d coding:%d bits:%d\n",
		headerPrefix, n, r.Send, r.Sync1, r.Sync2, r.Stop, r.Short, r.Long, r.Coding, r.Bits)
	for _, s := range ss[:n] {
		fmt.Fprintf(bw, " %d", s)
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// Reader reads frames from a dump, skipping unrelated lines.
type Reader struct {
	sc *bufio.Scanner
	// Line is the number of lines consumed so far.
	Line int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

func (r *Reader) scan() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	r.Line++
	return r.sc.Text(), true
}

// Next returns the next frame. It returns io.EOF at the end of input.
func (r *Reader) Next() (Frame, error) {
	for {
		line, ok := r.scan()
		if !ok {
			if err := r.sc.Err(); err != nil {
				return Frame{}, err
			}
			return Frame{}, io.EOF
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, headerPrefix) {
			continue
		}

		f, n, err := parseHeader(line)
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", r.Line, err)
		}
		body, ok := r.scan()
		if !ok {
			return Frame{}, fmt.Errorf("line %d: %w: missing samples", r.Line, ErrFormat)
		}
		f.Samples, err = parseSamples(body)
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", r.Line, err)
		}
		if f.Samples.Len() != n {
			return Frame{}, fmt.Errorf("line %d: %w: %d samples, header says %d", r.Line, ErrFormat, f.Samples.Len(), n)
		}
		return f, nil
	}
}

func parseHeader(line string) (Frame, int, error) {
	var (
		f                    Frame
		n                    int
		code                 uint32
		s1, s2, stop, sh, lg uint8
		coding, bits         uint8
	)
	_, err := fmt.Sscanf(line, headerPrefix+"n:%d code:0x%x s1:%d s2:%d stop:%d short:%d long:%d coding:%d bits:%d",
		&n, &code, &s1, &s2, &stop, &sh, &lg, &coding, &bits)
	if err != nil {
		return f, 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	f.Record = irblaster.Record{
		Compare: code,
		Send:    code,
		Sync1:   irblaster.Sample(s1),
		Sync2:   irblaster.Sample(s2),
		Stop:    irblaster.Sample(stop),
		Short:   irblaster.Sample(sh),
		Long:    irblaster.Sample(lg),
		Coding:  irblaster.Coding(coding),
		Bits:    bits,
	}
	return f, n, nil
}

func parseSamples(line string) (irblaster.Samples, error) {
	fields := strings.Fields(line)
	ss := make(irblaster.Samples, 0, len(fields)+1)
	for _, fld := range fields {
		v, err := strconv.ParseUint(fld, 10, 8)
		if err != nil || v == 0 {
			return nil, fmt.Errorf("%w: sample %q", ErrFormat, fld)
		}
		ss = append(ss, irblaster.Sample(v))
	}
	return append(ss, 0), nil
}
