package ebase

// Fixed byte layout constants for the EBASE binary format (§6.1). These are
// the format's bit-exact contract, not configuration: they never vary per
// manufacturer and are not read from any config file.
const (
	magicOffset  = 0
	magicLen     = 6
	headerOffset = magicOffset + magicLen
	headerLen    = 46

	// directoryOffset is the fixed byte offset of the table directory,
	// immediately following the header region.
	directoryOffset = 0x38

	directoryEntrySize = 8

	tableHeaderSize  = 36
	columnDescSize   = 32
	supportedVersion = 1
)

// Magic is the fixed 6-byte sequence that must open every valid file.
var Magic = [magicLen]byte{'E', 'B', 'D', 'B', 'F', 0x00}

// header field offsets, relative to headerOffset.
const (
	hdrMajorVersion   = 2
	hdrMinorVersion   = 4
	hdrStringPoolOff  = 14
	hdrStringPoolSize = 34
	hdrTableCount     = 38
)

// table descriptor header field offsets, relative to the table's own offset.
const (
	tblRecordCount = 4
	tblColumnCount = 8
	tblRecordSize  = 10
	tblColumnArray = 16
	tblDataOffset  = 20
)

// column descriptor field offsets, relative to the column's own offset.
const (
	colNameOffset = 0
	colTypeID     = 4
	colFlags      = 6
	colRecOffset  = 8
)

// TypeTag identifies a column's declared primitive type.
type TypeTag uint16

const (
	TypeI8 TypeTag = iota + 1
	TypeU8
	TypeI16
	TypeU16
	TypeI32
	TypeU32
	TypeF32
	TypeF64
	TypeStringInline
	TypeStringOffset
	TypeBlob
)

// FixedSize returns the declared byte size for fixed-width type tags, and
// false for TypeStringInline (variable, NUL-terminated) or an unknown tag.
func (t TypeTag) FixedSize() (int, bool) {
	switch t {
	case TypeI8, TypeU8:
		return 1, true
	case TypeI16, TypeU16:
		return 2, true
	case TypeI32, TypeU32, TypeF32:
		return 4, true
	case TypeF64:
		return 8, true
	case TypeStringOffset, TypeBlob:
		return 4, true
	default:
		return 0, false
	}
}

func (t TypeTag) String() string {
	switch t {
	case TypeI8:
		return "i8"
	case TypeU8:
		return "u8"
	case TypeI16:
		return "i16"
	case TypeU16:
		return "u16"
	case TypeI32:
		return "i32"
	case TypeU32:
		return "u32"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeStringInline:
		return "string-inline"
	case TypeStringOffset:
		return "string-offset"
	case TypeBlob:
		return "blob"
	default:
		return "unknown"
	}
}
