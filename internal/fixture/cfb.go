package fixture

import (
	"encoding/binary"
	"unicode/utf16"
)

const (
	cfbSector     = 512
	cfbFree       = 0xFFFFFFFF
	cfbEndOfChain = 0xFFFFFFFE
	cfbFATSector  = 0xFFFFFFFD
	cfbNoStream   = 0xFFFFFFFF
)

// LegacyWorkbook returns a version 3 compound file with a single 4 KiB
// "Workbook" stream, shaped like a BIFF8 .xls.
//
// Sector 0 holds the FAT, sector 1 the directory, sectors 2-9 the stream.
func LegacyWorkbook() []byte {
	const streamSectors = 8
	buf := make([]byte, cfbSector*(3+streamSectors))
	le := binary.LittleEndian

	h := buf[:cfbSector]
	copy(h, []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1})
	le.PutUint16(h[24:], 0x003E)
	le.PutUint16(h[26:], 0x0003)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint16(h[32:], 6)
	le.PutUint32(h[44:], 1) // FAT sectors
	le.PutUint32(h[48:], 1) // first directory sector
	le.PutUint32(h[56:], 4096)
	le.PutUint32(h[60:], cfbEndOfChain)
	le.PutUint32(h[68:], cfbEndOfChain)
	le.PutUint32(h[76:], 0)
	for i := 1; i < 109; i++ {
		le.PutUint32(h[76+4*i:], cfbFree)
	}

	fat := buf[cfbSector : 2*cfbSector]
	for i := 0; i < cfbSector/4; i++ {
		le.PutUint32(fat[4*i:], cfbFree)
	}
	le.PutUint32(fat[0:], cfbFATSector)
	le.PutUint32(fat[4:], cfbEndOfChain)
	for s := 2; s < 2+streamSectors; s++ {
		next := uint32(s + 1)
		if s == 1+streamSectors {
			next = cfbEndOfChain
		}
		le.PutUint32(fat[4*s:], next)
	}

	dir := buf[2*cfbSector : 3*cfbSector]
	dirEntry(dir[0:128], "Root Entry", 5, 1, cfbEndOfChain, 0)
	dirEntry(dir[128:256], "Workbook", 2, cfbNoStream, 2, cfbSector*streamSectors)
	for i := 2; i < 4; i++ {
		e := dir[128*i : 128*(i+1)]
		le.PutUint32(e[68:], cfbNoStream)
		le.PutUint32(e[72:], cfbNoStream)
		le.PutUint32(e[76:], cfbNoStream)
	}

	// BIFF8 BOF record.
	copy(buf[3*cfbSector:], []byte{0x09, 0x08, 0x10, 0x00, 0x00, 0x06, 0x05, 0x00})
	return buf
}

func dirEntry(e []byte, name string, kind byte, child, start uint32, size uint64) {
	le := binary.LittleEndian
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		le.PutUint16(e[2*i:], u)
	}
	le.PutUint16(e[64:], uint16(2*(len(units)+1)))
	e[66] = kind
	e[67] = 1 // black
	le.PutUint32(e[68:], cfbNoStream)
	le.PutUint32(e[72:], cfbNoStream)
	le.PutUint32(e[76:], child)
	le.PutUint32(e[116:], start)
	le.PutUint64(e[120:], size)
}
