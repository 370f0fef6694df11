package file

import (
	"bytes"
	"encoding/binary"
)

const (
	localHeaderLen = 30
	localHeaderSig = 0x04034b50
)

// HasGzipMagic reports whether b starts with the gzip magic bytes.
func HasGzipMagic(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

// HasZipMagic reports whether b starts with a zip local file header, end of
// central directory or spanning signature. Used to decide whether a nested
// item is worth opening.
func HasZipMagic(b []byte) bool {
	if len(b) < 5 {
		return false
	}
	return b[0] == 'P' && b[1] == 'K' &&
		(b[2] == 0x03 || b[2] == 0x05 || b[2] == 0x07) &&
		(b[3] == 0x04 || b[3] == 0x06 || b[3] == 0x08)
}

// IsZip is the stricter check used on whole containers: a zip is at least
// as long as an empty end of central directory record.
func IsZip(b []byte) bool {
	if len(b) < 22 {
		return false
	}
	switch binary.BigEndian.Uint32(b) {
	case 0x504b0304, 0x504b0506, 0x504b0708:
		return true
	}
	return false
}

// LocalHeader is the part of a zip local file header needed to sniff the
// first entry without a central directory.
type LocalHeader struct {
	Method         uint16
	CompressedSize uint32
	Name           string
	DataOffset     int64
}

// ParseLocalHeader decodes the local file header at the start of b. It
// needs the fixed 30 bytes plus the file name.
func ParseLocalHeader(b []byte) (LocalHeader, bool) {
	if len(b) < localHeaderLen || binary.LittleEndian.Uint32(b) != localHeaderSig {
		return LocalHeader{}, false
	}
	nameLen := int(binary.LittleEndian.Uint16(b[26:]))
	extraLen := int(binary.LittleEndian.Uint16(b[28:]))
	if len(b) < localHeaderLen+nameLen {
		return LocalHeader{}, false
	}
	return LocalHeader{
		Method:         binary.LittleEndian.Uint16(b[8:]),
		CompressedSize: binary.LittleEndian.Uint32(b[18:]),
		Name:           string(b[localHeaderLen : localHeaderLen+nameLen]),
		DataOffset:     int64(localHeaderLen + nameLen + extraLen),
	}, true
}

// HeaderPrefixLen is how many leading bytes ParseLocalHeader needs before
// the name length is known.
const HeaderPrefixLen = localHeaderLen

// MatchMimetype reports whether b starts with a stored "mimetype" entry whose
// content, read by the compressed size of the local header, is exactly
// mimetype. Writers that defer sizes to a data descriptor record a zero
// size in the local header and are not recognized.
func MatchMimetype(b []byte, mimetype string) bool {
	h, ok := ParseLocalHeader(b)
	if !ok || h.Name != "mimetype" || h.Method != 0 {
		return false
	}
	end := h.DataOffset + int64(h.CompressedSize)
	if end > int64(len(b)) {
		return false
	}
	return bytes.Equal(b[h.DataOffset:end], []byte(mimetype))
}
