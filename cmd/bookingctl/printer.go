package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printer writes status lines with a colored marker. Color is dropped
// automatically when stdout is not a terminal.
type printer struct {
	w    io.Writer
	ok   *color.Color
	fail *color.Color
	warn *color.Color
	head *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:    w,
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
		head: color.New(color.FgCyan, color.Bold),
	}
}

func (p *printer) Section(format string, args ...any) {
	fmt.Fprintln(p.w)
	p.head.Fprintf(p.w, "== "+format+"\n", args...)
}

func (p *printer) OK(format string, args ...any) {
	p.ok.Fprint(p.w, "  ✓ ")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Fail(format string, args ...any) {
	p.fail.Fprint(p.w, "  ✗ ")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Warn(format string, args ...any) {
	p.warn.Fprint(p.w, "  ! ")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, "    "+format+"\n", args...)
}
