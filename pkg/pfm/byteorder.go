package pfm

import "encoding/binary"

// NativeByteOrder returns the host byte order as a concrete ByteOrder.
func NativeByteOrder() binary.ByteOrder {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// scaleToken returns the header token that declares order.
func scaleToken(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return ScaleBigEndian
	}
	return ScaleLittleEndian
}

// byteOrderName returns a short name for order.
func byteOrderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big-endian"
	}
	return "little-endian"
}
