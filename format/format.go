package format

import (
	"path/filepath"
	"strings"

	"github.com/deepch/mkv/format/mkv"
)

// Handler recognizes one container format by file extension or by
// its first bytes.
type Handler struct {
	Name  string
	Exts  []string
	Probe func([]byte) bool
}

var handlers []Handler

func RegisterAll() {
	handlers = handlers[:0]
	handlers = append(handlers, Handler{Name: "matroska", Exts: mkv.Exts, Probe: mkv.Probe})
}

// Detect returns the handler whose probe accepts header, falling back to
// the extension of name.
func Detect(name string, header []byte) (Handler, bool) {
	for _, h := range handlers {
		if h.Probe != nil && h.Probe(header) {
			return h, true
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, h := range handlers {
		for _, e := range h.Exts {
			if e == ext {
				return h, true
			}
		}
	}
	return Handler{}, false
}
