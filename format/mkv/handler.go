package mkv

import "bytes"

const Ext = ".mkv"

// Exts lists the file extensions of Matroska and WebM files.
var Exts = []string{".mkv", ".mka", ".mks", ".mk3d", ".webm"}

var ebmlMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}

// Probe reports whether b starts with an EBML header.
func Probe(b []byte) bool {
	return bytes.HasPrefix(b, ebmlMagic)
}
