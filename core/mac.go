package core

// Fixed MAC prefix. 0xBE has the locally-administered bit set and the
// multicast bit clear.
const (
	macPrefix0 = 0xBE
	macPrefix1 = 0xEF
)

// fallbackMacTail is used when the backend has no unique ID.
var fallbackMacTail = [4]byte{0xDE, 0xAD, 0xCC, 0x01}

// SimulatedMacAddress fills mac with an identifier derived from the chip's
// unique ID. Stable for the boot session, not guaranteed to be globally
// unique.
func (c *WaveformClock) SimulatedMacAddress(mac *[6]byte) {
	if !c.macValid {
		c.mac = deriveMac(c.driver.UniqueID())
		c.macValid = true
	}
	*mac = c.mac
}

// deriveMac folds id into the four low bytes by XOR.
func deriveMac(id []byte) [6]byte {
	mac := [6]byte{macPrefix0, macPrefix1}
	if len(id) == 0 {
		copy(mac[2:], fallbackMacTail[:])
		return mac
	}
	for i, b := range id {
		mac[2+i%4] ^= b
	}
	return mac
}
