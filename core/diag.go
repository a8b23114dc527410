package core

// DiagPrefix starts every diagnostics line.
const DiagPrefix = "diag"

// AppendDiagnostics appends one diagnostics line (without newline) to buf:
//
//	diag fires=1234 minfree=41000 mac=be:ef:12:34:56:78 skips=3 a26=2048
//
// The sampler may be nil on boards without analog inputs. Foreground only.
func AppendDiagnostics(buf []byte, c *WaveformClock, s *AnalogSampler) []byte {
	buf = append(buf, DiagPrefix...)
	buf = append(buf, " fires="...)
	buf = appendUint(buf, c.Fires())
	buf = append(buf, " minfree="...)
	buf = appendInt(buf, c.MinimumFreeMemory())

	var mac [6]byte
	c.SimulatedMacAddress(&mac)
	buf = append(buf, " mac="...)
	for i, b := range mac {
		if i > 0 {
			buf = append(buf, ':')
		}
		buf = appendHexByte(buf, b)
	}

	if s == nil {
		return buf
	}
	buf = append(buf, " skips="...)
	buf = appendUint(buf, s.Skips())
	for _, pin := range s.Pins() {
		buf = append(buf, " a"...)
		buf = appendUint(buf, uint32(pin))
		buf = append(buf, '=')
		buf = appendInt(buf, s.ReadISR(pin))
	}
	return buf
}

// ReportDiagnostics formats a diagnostics line and writes it to the debug
// writer, regardless of the debug enable flag.
func ReportDiagnostics(c *WaveformClock, s *AnalogSampler) {
	debugPrintln(string(AppendDiagnostics(make([]byte, 0, 96), c, s)))
}
