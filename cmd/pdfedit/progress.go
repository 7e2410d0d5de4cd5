package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	pdfedit "github.com/alnah/go-pdfedit"
)

// eventKind tags a pipeline hook event.
type eventKind int

const (
	eventProgress eventKind = iota
	eventStatus
	eventComplete
	eventError
)

// progressEvent carries one hook call from a pipeline goroutine to the
// goroutine that owns the terminal.
type progressEvent struct {
	job      int
	kind     eventKind
	fraction float64
	text     string
}

// eventBuffer sizes the hook channel. A run emits about a dozen events.
const eventBuffer = 32

// forwardHooks returns hooks that send every event for job on ch.
func forwardHooks(ch chan<- progressEvent, job int) pdfedit.Hooks {
	return pdfedit.Hooks{
		OnProgress: func(f float64) { ch <- progressEvent{job: job, kind: eventProgress, fraction: f} },
		OnStatus:   func(s string) { ch <- progressEvent{job: job, kind: eventStatus, text: s} },
		OnComplete: func(p string) { ch <- progressEvent{job: job, kind: eventComplete, text: p} },
		OnError:    func(m string) { ch <- progressEvent{job: job, kind: eventError, text: m} },
	}
}

// progressLine renders a single run as a self-overwriting line:
//
//	[ 45%] Waiting for model…
type progressLine struct {
	w        io.Writer
	fraction float64
	status   string
	width    int // length of the last line drawn, 0 when nothing is on screen
}

func newProgressLine(w io.Writer) *progressLine {
	return &progressLine{w: w}
}

func (p *progressLine) handle(ev progressEvent) {
	switch ev.kind {
	case eventProgress:
		p.fraction = ev.fraction
	case eventStatus:
		p.status = ev.text
	default:
		return
	}
	p.draw()
}

func (p *progressLine) draw() {
	line := fmt.Sprintf("[%3d%%] %s", int(math.Round(p.fraction*100)), p.status)
	pad := ""
	if n := len(line); n < p.width {
		pad = strings.Repeat(" ", p.width-n)
	}
	fmt.Fprintf(p.w, "\r%s%s", line, pad)
	p.width = len(line)
}

// finish ends the line so later output starts on a fresh row.
func (p *progressLine) finish() {
	if p.width > 0 {
		fmt.Fprintln(p.w)
		p.width = 0
	}
}

// batchPrinter writes one line per status change, prefixed with the job name.
type batchPrinter struct {
	w     io.Writer
	names []string
}

func (b *batchPrinter) handle(ev progressEvent) {
	if ev.kind != eventStatus {
		return
	}
	fmt.Fprintf(b.w, "%s: %s\n", b.names[ev.job], ev.text)
}
