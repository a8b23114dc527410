// Package diag parses the diagnostics lines the firmware and the simulator
// print once a second.
package diag

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"dccgen/core"
)

// Prefix is the first token of every diagnostics line.
const Prefix = core.DiagPrefix

var (
	// ErrNotDiagnostics is returned for lines that are not diagnostics,
	// such as debug messages sharing the port.
	ErrNotDiagnostics = errors.New("diag: not a diagnostics line")
	ErrMissingField   = errors.New("diag: missing field")
)

// Report is one parsed diagnostics line.
type Report struct {
	Fires   uint32
	MinFree int32
	MAC     net.HardwareAddr

	// Sampler fields; HasSampler is false on boards without analog pins.
	HasSampler bool
	Skips      uint32
	Analog     map[uint8]int32
}

// Parse decodes a line of the form
//
//	diag fires=1234 minfree=41000 mac=be:ef:12:34:56:78 skips=3 a26=2048
func Parse(line string) (*Report, error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("diag: split line: %w", err)
	}
	if len(fields) == 0 || fields[0] != Prefix {
		return nil, ErrNotDiagnostics
	}

	r := &Report{Analog: make(map[uint8]int32)}
	seen := make(map[string]bool)
	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("diag: field %q has no value", field)
		}
		if err := r.set(key, value); err != nil {
			return nil, fmt.Errorf("diag: field %q: %w", key, err)
		}
		seen[key] = true
	}

	for _, key := range []string{"fires", "minfree", "mac"} {
		if !seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}
	return r, nil
}

func (r *Report) set(key, value string) error {
	switch key {
	case "fires":
		n, err := strconv.ParseUint(value, 10, 32)
		r.Fires = uint32(n)
		return err
	case "minfree":
		n, err := strconv.ParseInt(value, 10, 32)
		r.MinFree = int32(n)
		return err
	case "mac":
		mac, err := net.ParseMAC(value)
		if err == nil && len(mac) != 6 {
			err = fmt.Errorf("want 6 bytes, got %d", len(mac))
		}
		r.MAC = mac
		return err
	case "skips":
		n, err := strconv.ParseUint(value, 10, 32)
		r.Skips = uint32(n)
		r.HasSampler = true
		return err
	}

	if pin, ok := strings.CutPrefix(key, "a"); ok && isDigits(pin) {
		p, err := strconv.ParseUint(pin, 10, 8)
		if err != nil {
			return err
		}
		v, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return err
		}
		r.Analog[uint8(p)] = int32(v)
		return nil
	}

	// Newer firmware may add fields; keep going.
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Pins returns the analog pins in the report, sorted.
func (r *Report) Pins() []uint8 {
	pins := make([]uint8, 0, len(r.Analog))
	for pin := range r.Analog {
		pins = append(pins, pin)
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i] < pins[j] })
	return pins
}

// String formats the report for a terminal.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fires=%d minfree=%s mac=%s", r.Fires, formatFree(r.MinFree), r.MAC)
	if r.HasSampler {
		fmt.Fprintf(&b, " skips=%d", r.Skips)
		for _, pin := range r.Pins() {
			fmt.Fprintf(&b, " a%d=%d", pin, r.Analog[pin])
		}
	}
	return b.String()
}

// formatFree shows the unmeasured watermark sentinel as "-".
func formatFree(n int32) string {
	if n == core.FreeMemorySentinel {
		return "-"
	}
	return strconv.Itoa(int(n))
}
