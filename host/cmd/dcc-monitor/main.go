// Command dcc-monitor reads the diagnostics a board prints on its USB
// serial port and reports timer health.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"dccgen/host/diag"
	"dccgen/host/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	raw    = flag.Bool("raw", false, "Echo every line unparsed")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.ReadTimeout = 0 // block; the board prints every second

	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	fmt.Printf("Monitoring %s\n", *device)
	if err := monitor(port, os.Stdout, *raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// tracker follows successive reports from one board.
type tracker struct {
	last *diag.Report
}

// observe returns warnings raised by r relative to the previous report.
func (t *tracker) observe(r *diag.Report) []string {
	var warnings []string
	if t.last != nil {
		switch {
		case r.Fires < t.last.Fires:
			warnings = append(warnings, "board reset (fire count went backwards)")
		case r.Fires == t.last.Fires:
			warnings = append(warnings, "waveform interrupt stalled")
		}
		if r.MinFree < t.last.MinFree && r.Fires >= t.last.Fires {
			warnings = append(warnings, fmt.Sprintf("free memory low-water dropped by %d bytes", t.last.MinFree-r.MinFree))
		}
		if r.HasSampler && t.last.HasSampler && r.Skips > t.last.Skips && r.Fires >= t.last.Fires {
			warnings = append(warnings, fmt.Sprintf("%d analog scans deferred", r.Skips-t.last.Skips))
		}
	}
	t.last = r
	return warnings
}

func monitor(r io.Reader, out io.Writer, raw bool) error {
	var t tracker
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if raw {
			fmt.Fprintln(out, line)
			continue
		}

		report, err := diag.Parse(line)
		if errors.Is(err, diag.ErrNotDiagnostics) {
			fmt.Fprintf(out, "  %s\n", line)
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%s\n", report)
		for _, w := range t.observe(report) {
			fmt.Fprintf(out, "! %s\n", w)
		}
	}
	return scanner.Err()
}
