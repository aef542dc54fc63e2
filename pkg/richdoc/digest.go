package richdoc

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Digest fingerprints the content of a document: block kinds, style sets and
// text, in order. Two documents with the same digest project identically and
// serialize to the same tree.
func Digest(doc *Document) [blake2b.Size256]byte {
	if doc == nil {
		return blake2b.Sum256(nil)
	}
	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(doc.Blocks)))
	for _, b := range doc.Blocks {
		buf = appendString(buf, string(b.Kind))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b.Runs)))
		for _, r := range b.Runs {
			buf = append(buf, byte(r.Styles))
			buf = appendString(buf, r.Text)
		}
	}
	return blake2b.Sum256(buf)
}

func appendString(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}
