//go:build rp2040

package main

import "machine"

// InitUSB configures machine.Serial, the USB CDC-ACM port on the Pico.
func InitUSB() {
	machine.Serial.Configure(machine.UARTConfig{})
}

var crlf = []byte("\r\n")

// usbWriteLine is the debug writer: one line per call. Drops output when
// the host is not reading rather than blocking the main loop.
func usbWriteLine(s string) {
	if _, err := machine.Serial.Write([]byte(s)); err != nil {
		return
	}
	machine.Serial.Write(crlf)
}
