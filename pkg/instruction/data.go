package instruction

type dataKind uint8

const (
	dataFull dataKind = iota
	dataTruncated
)

// Data is an instruction payload backed by a fixed capacity buffer. Fixed
// layouts use the whole buffer; layouts with a variable length field use a
// valid prefix of it.
type Data struct {
	kind dataKind
	buf  []byte
	n    int
}

// FullData marks the whole buffer as valid.
func FullData(buf []byte) Data {
	return Data{kind: dataFull, buf: buf, n: len(buf)}
}

// TruncatedData marks the first n bytes of buf as valid.
func TruncatedData(buf []byte, n int) Data {
	if n < 0 || n > len(buf) {
		panic("instruction: truncated length out of range")
	}
	return Data{kind: dataTruncated, buf: buf, n: n}
}

// Bytes returns the valid prefix of the payload.
func (d Data) Bytes() []byte {
	return d.buf[:d.n]
}

func (d Data) Len() int {
	return d.n
}

func (d Data) Cap() int {
	return len(d.buf)
}

func (d Data) Truncated() bool {
	return d.kind == dataTruncated
}
