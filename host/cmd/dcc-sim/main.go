// Command dcc-sim runs the waveform clock and analog sampler against the
// simulated timer and converter, printing a diagnostics line per period.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"dccgen/core"
	"dccgen/core/sim"
	"dccgen/host/config"
)

var (
	configPath = flag.String("config", "", "JSON board description (default: built-in)")
	cycles     = flag.Int("cycles", 0, "Half-cycles to simulate (overrides config)")
	verbose    = flag.Bool("verbose", false, "Enable debug output")
)

// memoryHeadroom is the stack the waveform callback reserves.
const memoryHeadroom = 16

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *cycles > 0 {
		cfg.Cycles = *cycles
	}

	if err := run(cfg, os.Stdout, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// encoder is the idle-packet stand-in driven by the waveform interrupt.
type encoder struct {
	clock *core.WaveformClock
	pins  []core.Pin
	level bool
}

func (e *encoder) tick() {
	e.level = !e.level
	for _, pin := range e.pins {
		e.clock.SetPWM(pin, e.level)
	}
	e.clock.UpdateMinimumFreeMemoryISR(memoryHeadroom)
}

// run can only be called once per process: the core allows a single clock
// and sampler.
func run(cfg *config.SimConfig, out io.Writer, verbose bool) error {
	core.SetDebugWriter(func(s string) { fmt.Fprintln(out, s) })
	core.SetDebugEnabled(verbose)

	id, err := cfg.UniqueIDBytes()
	if err != nil {
		return err
	}

	pwmPins := make([]core.Pin, len(cfg.PWMPins))
	for i, p := range cfg.PWMPins {
		pwmPins[i] = core.Pin(p)
	}
	timer := sim.NewTimer(pwmPins...)
	timer.SetUniqueID(id)
	timer.SetFreeMemory(cfg.FreeMemory)

	adc := sim.NewADC(timer, core.TicksFromUS(cfg.ConversionUS))
	for _, src := range cfg.Analog {
		adc.SetValue(core.Pin(src.Pin), src.Value)
	}

	clock := core.NewWaveformClock(timer)
	sampler := core.NewAnalogSampler(adc, clock)
	for _, src := range cfg.Analog {
		v := sampler.Init(core.Pin(src.Pin))
		core.DebugPrintln(fmt.Sprintf("a%d initial %d", src.Pin, v))
	}

	enc := &encoder{clock: clock, pins: pwmPins}
	clock.Begin(enc.tick)

	rng := rand.New(rand.NewSource(cfg.Seed))
	free := cfg.FreeMemory
	for int(clock.Fires()) < cfg.Cycles {
		start := clock.Fires()
		for clock.Fires() == start {
			timer.AdvanceUS(cfg.ScanIntervalUS)
			for _, src := range cfg.Analog {
				adc.SetValue(core.Pin(src.Pin), src.Value+jitter(rng, src.Noise))
			}
			sampler.Scan()
		}
		if int(clock.Fires())%cfg.ReportEvery == 0 {
			core.ReportDiagnostics(clock, sampler)
			free += cfg.FreeMemoryStep
			timer.SetFreeMemory(free)
		}
	}
	return nil
}

func jitter(rng *rand.Rand, noise int32) int32 {
	if noise <= 0 {
		return 0
	}
	return rng.Int31n(2*noise+1) - noise
}
