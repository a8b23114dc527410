// Package config loads the host simulator's board description.
package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"dccgen/core"
)

var (
	ErrTooManyPWMPins = errors.New("config: at most two PWM pins")
	ErrTooManyAnalog  = errors.New("config: too many analog pins")
	ErrDuplicatePin   = errors.New("config: analog pin listed twice")
	ErrScanInterval   = errors.New("config: scan interval must be shorter than a half-cycle")
	ErrConversionLong = errors.New("config: conversion does not fit in a half-cycle")
)

// AnalogSource is a simulated analog input.
type AnalogSource struct {
	Pin   uint8 `json:"pin"`
	Value int32 `json:"value"`
	Noise int32 `json:"noise"` // peak deviation added per scan
}

// SimConfig describes the simulated board and run.
type SimConfig struct {
	PWMPins        []uint8        `json:"pwm_pins"`
	UniqueID       string         `json:"unique_id"` // hex
	FreeMemory     int32          `json:"free_memory"`
	FreeMemoryStep int32          `json:"free_memory_step"` // change per report
	ConversionUS   uint32         `json:"conversion_us"`
	ScanIntervalUS uint32         `json:"scan_interval_us"`
	Analog         []AnalogSource `json:"analog"`
	Cycles         int            `json:"cycles"`
	ReportEvery    int            `json:"report_every"` // cycles between reports
	Seed           int64          `json:"seed"`
}

// LoadConfig parses a JSON configuration and applies defaults.
func LoadConfig(jsonData []byte) (*SimConfig, error) {
	var cfg SimConfig
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses a configuration file.
func Load(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return LoadConfig(data)
}

// Default returns the configuration used without a file: a Mega motor
// shield with both PWM pins and two current sense inputs.
func Default() *SimConfig {
	cfg := &SimConfig{
		PWMPins: []uint8{11, 12},
		Analog: []AnalogSource{
			{Pin: 0, Value: 512, Noise: 4},
			{Pin: 1, Value: 498, Noise: 4},
		},
	}
	applyDefaults(cfg)
	return cfg
}

// cyclesPerSecond is the number of waveform half-cycles in one second.
const cyclesPerSecond = 1000000 / core.DCCSignalTime

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *SimConfig) {
	if cfg.FreeMemory == 0 {
		cfg.FreeMemory = 6 * 1024
	}
	if cfg.ConversionUS == 0 {
		cfg.ConversionUS = 13 // AVR: 13 ADC clocks at 1MHz
	}
	if cfg.ScanIntervalUS == 0 {
		cfg.ScanIntervalUS = 20
	}
	if cfg.Cycles == 0 {
		cfg.Cycles = 5 * cyclesPerSecond
	}
	if cfg.ReportEvery == 0 {
		cfg.ReportEvery = cyclesPerSecond
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
}

// Validate checks the configuration against the core's limits.
func (c *SimConfig) Validate() error {
	if len(c.PWMPins) > 2 {
		return ErrTooManyPWMPins
	}
	if len(c.Analog) > core.MaxAnalogPins {
		return fmt.Errorf("%w: %d > %d", ErrTooManyAnalog, len(c.Analog), core.MaxAnalogPins)
	}
	seen := make(map[uint8]bool, len(c.Analog))
	for _, src := range c.Analog {
		if seen[src.Pin] {
			return fmt.Errorf("%w: %d", ErrDuplicatePin, src.Pin)
		}
		seen[src.Pin] = true
	}
	if _, err := c.UniqueIDBytes(); err != nil {
		return err
	}
	// The sampler only starts a conversion that ends GuardTicks before the
	// next fire; past this bound no slot is ever converted.
	if core.TicksFromUS(c.ConversionUS)+core.GuardTicks >= core.HalfCycleTicks() {
		return fmt.Errorf("%w: %dus", ErrConversionLong, c.ConversionUS)
	}
	if c.ScanIntervalUS >= core.DCCSignalTime {
		return fmt.Errorf("%w: %dus", ErrScanInterval, c.ScanIntervalUS)
	}
	return nil
}

// UniqueIDBytes decodes UniqueID; empty means no chip serial.
func (c *SimConfig) UniqueIDBytes() ([]byte, error) {
	if c.UniqueID == "" {
		return nil, nil
	}
	id, err := hex.DecodeString(c.UniqueID)
	if err != nil {
		return nil, fmt.Errorf("config: unique_id: %w", err)
	}
	return id, nil
}
