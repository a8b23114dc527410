package main

import (
	"bytes"
	"strings"
	"testing"

	"dccgen/host/diag"
)

func TestMonitorFormatsAndWarns(t *testing.T) {
	input := strings.Join([]string{
		"diag fires=100 minfree=4000 mac=be:ef:00:00:00:01 skips=0 a26=512",
		"track peak 12",
		"diag fires=200 minfree=3900 mac=be:ef:00:00:00:01 skips=2 a26=513",
		"diag fires=bogus minfree=1 mac=be:ef:00:00:00:01",
		"",
		"diag fires=5 minfree=3900 mac=be:ef:00:00:00:01 skips=0 a26=510",
	}, "\r\n")

	var out bytes.Buffer
	if err := monitor(strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("monitor failed: %v", err)
	}
	got := out.String()

	for _, want := range []string{
		"fires=100 minfree=4000 mac=be:ef:00:00:00:01 skips=0 a26=512\n",
		"  track peak 12\n",
		"! free memory low-water dropped by 100 bytes\n",
		"! 2 analog scans deferred\n",
		"! board reset (fire count went backwards)\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "! diag:") != 1 {
		t.Errorf("Expected one parse error in output:\n%s", got)
	}
	if strings.Contains(got, "\r") {
		t.Errorf("Carriage returns not stripped:\n%q", got)
	}
}

func TestMonitorRaw(t *testing.T) {
	var out bytes.Buffer
	if err := monitor(strings.NewReader("diag fires=1\nhello\n"), &out, true); err != nil {
		t.Fatalf("monitor failed: %v", err)
	}
	if out.String() != "diag fires=1\nhello\n" {
		t.Errorf("Raw output = %q", out.String())
	}
}

func TestTrackerStall(t *testing.T) {
	var tr tracker
	r := &diag.Report{Fires: 10, MinFree: 100}
	if w := tr.observe(r); len(w) != 0 {
		t.Errorf("First report raised %v", w)
	}
	w := tr.observe(&diag.Report{Fires: 10, MinFree: 100})
	if len(w) != 1 || w[0] != "waveform interrupt stalled" {
		t.Errorf("Expected stall warning, got %v", w)
	}
}
