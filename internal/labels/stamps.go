package labels

import (
	"os"
	"path/filepath"
)

// Stamp file names.
const (
	DomesticStamp      = "sello_nacional.png"
	InternationalStamp = "sello_extranjero.png"
)

// DefaultStampDirs are searched in order when no directories are configured.
var DefaultStampDirs = []string{
	filepath.Join("app", "static", "sellos"),
	filepath.Join("static", "sellos"),
	"sellos",
	filepath.Join(os.TempDir(), "sellos"),
}

// StampLocator finds postage stamp images by searching a fixed list of
// directories. The first existing file wins.
type StampLocator struct {
	dirs []string
}

// NewStampLocator searches dirs in the given order, or DefaultStampDirs
// when none are given.
func NewStampLocator(dirs ...string) *StampLocator {
	if len(dirs) == 0 {
		dirs = DefaultStampDirs
	}
	return &StampLocator{dirs: append([]string(nil), dirs...)}
}

// Locate returns the path of the stamp for a domestic or international
// shipment, and false when no candidate exists.
func (l *StampLocator) Locate(international bool) (string, bool) {
	name := DomesticStamp
	if international {
		name = InternationalStamp
	}
	for _, dir := range l.dirs {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
