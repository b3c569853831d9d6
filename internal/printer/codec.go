// Package printer encodes messages into the receipt printer's binary
// protocol and delivers them to the printer bridge.
package printer

// ESC/POS sequences for the Rongta RP326.
var (
	escInit    = []byte{0x1b, 0x40}
	feedAndCut = []byte{0x1b, 0x64, 0x05, 0x1d, 0x56, 0x00}
)

// Encode frames a message for the device: initialize, UTF-8 text, a single
// newline, then feed-and-cut. The frame must be written to the device as
// one unit.
func Encode(message string) []byte {
	frame := make([]byte, 0, len(escInit)+len(message)+1+len(feedAndCut))
	frame = append(frame, escInit...)
	frame = append(frame, message...)
	frame = append(frame, '\n')
	frame = append(frame, feedAndCut...)
	return frame
}
