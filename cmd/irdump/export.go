package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sparques/irblaster"
	"github.com/sparques/irblaster/codec"
	"github.com/sparques/irblaster/diag"
)

var errMismatch = errors.New("samples decode differently")

type row struct {
	index int
	frame diag.Frame
	// err is set when the samples do not decode to the dumped record.
	err error
}

// collect reads frames from r until it ends, calling seen for each.
// Malformed frames are skipped.
func collect(r io.Reader, seen func(row)) ([]row, error) {
	var rows []row
	rd := diag.NewReader(r)
	for {
		f, err := rd.Next()
		switch {
		case err == io.EOF:
			return rows, nil
		case errors.Is(err, diag.ErrFormat):
			continue
		case err != nil:
			return rows, err
		}
		rw := row{index: len(rows), frame: f, err: check(f)}
		rows = append(rows, rw)
		if seen != nil {
			seen(rw)
		}
	}
}

func check(f diag.Frame) error {
	got, err := codec.Decode(f.Samples)
	if err != nil {
		return err
	}
	if got != f.Record {
		return fmt.Errorf("%w: code 0x%08x, dump says 0x%08x", errMismatch, got.Send, f.Record.Send)
	}
	return nil
}

var headers = []string{"code", "bits", "coding", "s1", "s2", "stop", "short", "long", "ok", "samples"}

func (r row) fields() []string {
	rec := r.frame.Record
	ok := "yes"
	if r.err != nil {
		ok = r.err.Error()
	}
	ss := make([]string, 0, r.frame.Samples.Len())
	for _, s := range r.frame.Samples[:r.frame.Samples.Len()] {
		ss = append(ss, strconv.Itoa(int(s)))
	}
	return []string{
		fmt.Sprintf("0x%08x", rec.Send),
		strconv.Itoa(int(rec.Bits)),
		rec.Coding.String(),
		num(rec.Sync1),
		num(rec.Sync2),
		num(rec.Stop),
		num(rec.Short),
		num(rec.Long),
		ok,
		strings.Join(ss, " "),
	}
}

func num(s irblaster.Sample) string {
	return strconv.Itoa(int(s))
}

func writeCSV(w io.Writer, rows []row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
