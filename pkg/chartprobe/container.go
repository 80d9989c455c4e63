package chartprobe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/richardlehane/mscfb"
)

// Container is the outer file format of a workbook.
type Container int

const (
	ContainerUnknown Container = iota
	// ContainerOOXML is a zip package (xlsx, xlsm).
	ContainerOOXML
	// ContainerEncrypted is an OLE2 compound file holding an encrypted
	// OOXML package (EncryptionInfo and EncryptedPackage streams).
	ContainerEncrypted
	// ContainerLegacy is any other OLE2 compound file, usually a BIFF .xls.
	ContainerLegacy
)

func (c Container) String() string {
	switch c {
	case ContainerOOXML:
		return "ooxml"
	case ContainerEncrypted:
		return "encrypted"
	case ContainerLegacy:
		return "legacy"
	}
	return "unknown"
}

var (
	zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
)

// DetectContainer classifies a workbook by its signature and, for OLE2
// compound files, by the streams it holds.
func DetectContainer(ra io.ReaderAt) (Container, error) {
	head := make([]byte, len(oleMagic))
	n, err := ra.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return ContainerUnknown, err
	}
	head = head[:n]

	switch {
	case hasPrefix(head, zipMagic):
		return ContainerOOXML, nil
	case !hasPrefix(head, oleMagic):
		return ContainerUnknown, nil
	}

	doc, err := mscfb.New(ra)
	if err != nil {
		// A damaged compound file is still not something excelize can read.
		return ContainerLegacy, nil
	}
	var info, pkg bool
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "EncryptionInfo":
			info = true
		case "EncryptedPackage":
			pkg = true
		}
	}
	if info && pkg {
		return ContainerEncrypted, nil
	}
	return ContainerLegacy, nil
}

// DetectFileContainer runs DetectContainer on the file at path.
func DetectFileContainer(path string) (Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return ContainerUnknown, err
	}
	defer f.Close()
	return DetectContainer(f)
}

// admit rejects containers excelize cannot open with the given options.
func (c Container) admit(opts Options) error {
	switch {
	case c == ContainerLegacy:
		return fmt.Errorf("%w: legacy .xls (BIFF) workbooks are not supported", ErrInvalidFormat)
	case c == ContainerEncrypted && opts.Password == "":
		return fmt.Errorf("%w: workbook is encrypted", ErrPassword)
	}
	return nil
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
