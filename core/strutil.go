package core

// Number formatting without fmt or strconv, to keep firmware images small.

const hexDigits = "0123456789abcdef"

// appendUint appends the decimal form of n to buf.
func appendUint(buf []byte, n uint32) []byte {
	if n == 0 {
		return append(buf, '0')
	}
	var tmp [10]byte
	pos := len(tmp)
	for n > 0 {
		pos--
		tmp[pos] = byte('0' + n%10)
		n /= 10
	}
	return append(buf, tmp[pos:]...)
}

// appendInt appends the decimal form of n to buf.
func appendInt(buf []byte, n int32) []byte {
	if n < 0 {
		buf = append(buf, '-')
		// widen first so math.MinInt32 negates
		return appendUint(buf, uint32(-int64(n)))
	}
	return appendUint(buf, uint32(n))
}

// appendHexByte appends b as two lower-case hex digits.
func appendHexByte(buf []byte, b byte) []byte {
	return append(buf, hexDigits[b>>4], hexDigits[b&0x0f])
}
