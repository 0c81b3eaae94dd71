package ebase

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileBuilder assembles a minimal valid EBASE byte stream for tests,
// mirroring the fixed layout in format.go. The string pool sits right after
// the single directory entry, so interned offsets are absolute file offsets
// known before the rest of the file is laid out.
type fileBuilder struct {
	pool     []byte
	poolOffs map[string]uint32
}

const testPoolOffset = directoryOffset + directoryEntrySize

func newFileBuilder() *fileBuilder {
	return &fileBuilder{poolOffs: make(map[string]uint32)}
}

func (b *fileBuilder) intern(s string) uint32 {
	if off, ok := b.poolOffs[s]; ok {
		return off
	}
	off := uint32(testPoolOffset + len(b.pool))
	b.pool = binary.BigEndian.AppendUint16(b.pool, uint16(len(s)))
	b.pool = append(b.pool, s...)
	b.poolOffs[s] = off
	return off
}

type builtColumn struct {
	name   string
	typ    TypeTag
	offset int
}

func (b *fileBuilder) build(tableName string, columns []builtColumn, recordSize int, records [][]byte) []byte {
	var out []byte
	out = append(out, Magic[:]...)

	// reserve header region, filled after pool layout is known.
	headerStart := len(out)
	out = append(out, make([]byte, headerLen)...)

	for len(out) < directoryOffset {
		out = append(out, 0)
	}

	// one directory entry.
	nameOff := b.intern(tableName)
	dirStart := len(out)
	out = binary.BigEndian.AppendUint32(out, nameOff)
	tableOffsetPos := len(out)
	out = binary.BigEndian.AppendUint32(out, 0) // patched below
	_ = dirStart

	// string pool, written once every name the table uses is interned.
	for _, c := range columns {
		b.intern(c.name)
	}
	out = append(out, b.pool...)

	// table descriptor header.
	tableOffset := uint32(len(out))
	binary.BigEndian.PutUint32(out[tableOffsetPos:], tableOffset)

	tableHeaderStart := len(out)
	out = append(out, make([]byte, tableHeaderSize)...)
	binary.BigEndian.PutUint32(out[tableHeaderStart+tblRecordCount:], uint32(len(records)))
	binary.BigEndian.PutUint16(out[tableHeaderStart+tblColumnCount:], uint16(len(columns)))
	binary.BigEndian.PutUint16(out[tableHeaderStart+tblRecordSize:], uint16(recordSize))
	columnArrayPos := tableHeaderStart + tblColumnArray
	dataOffsetPos := tableHeaderStart + tblDataOffset

	columnArrayOffset := uint32(len(out))
	binary.BigEndian.PutUint32(out[columnArrayPos:], columnArrayOffset)
	for _, c := range columns {
		colStart := len(out)
		out = binary.BigEndian.AppendUint32(out, b.intern(c.name))
		out = binary.BigEndian.AppendUint16(out, uint16(c.typ))
		out = binary.BigEndian.AppendUint16(out, 0) // flags
		out = binary.BigEndian.AppendUint16(out, uint16(c.offset))
		for len(out) < colStart+columnDescSize {
			out = append(out, 0)
		}
	}

	dataOffset := uint32(len(out))
	binary.BigEndian.PutUint32(out[dataOffsetPos:], dataOffset)
	for _, rec := range records {
		out = append(out, rec...)
	}

	binary.BigEndian.PutUint16(out[headerStart+hdrMajorVersion:], 1)
	binary.BigEndian.PutUint16(out[headerStart+hdrMinorVersion:], 0)
	binary.BigEndian.PutUint32(out[headerStart+hdrStringPoolOff:], testPoolOffset)
	binary.BigEndian.PutUint32(out[headerStart+hdrStringPoolSize:], uint32(len(b.pool)))
	binary.BigEndian.PutUint32(out[headerStart+hdrTableCount:], 1)

	return out
}

func TestOpenAndReadRecords(t *testing.T) {
	b := newFileBuilder()
	columns := []builtColumn{
		{name: "id", typ: TypeU32, offset: 0},
		{name: "name", typ: TypeStringOffset, offset: 4},
	}
	nameOff1 := b.intern("alpha")
	nameOff2 := b.intern("beta")

	rec1 := make([]byte, 8)
	binary.BigEndian.PutUint32(rec1[0:], 1)
	binary.BigEndian.PutUint32(rec1[4:], nameOff1)

	rec2 := make([]byte, 8)
	binary.BigEndian.PutUint32(rec2[0:], 2)
	binary.BigEndian.PutUint32(rec2[4:], nameOff2)

	data := b.build("widgets", columns, 8, [][]byte{rec1, rec2})

	db, err := OpenBytes("test.ebase", data, nil)
	require.NoError(t, err)
	assert.True(t, db.HasTable("widgets"))

	records, err := db.ReadRecords("widgets", -1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	id, ok := records[0]["id"].AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "alpha", records[0]["name"].AsString())
	assert.Equal(t, "beta", records[1]["name"].AsString())
}

func TestOpenInvalidMagic(t *testing.T) {
	_, err := OpenBytes("bad", []byte("not an ebase file at all"), nil)
	require.Error(t, err)
	var magicErr *ErrInvalidMagic
	assert.ErrorAs(t, err, &magicErr)
}

func TestRoundTripDecodeStability(t *testing.T) {
	b := newFileBuilder()
	columns := []builtColumn{{name: "v", typ: TypeU16, offset: 0}}
	rec := make([]byte, 2)
	binary.BigEndian.PutUint16(rec, 7)
	data := b.build("t", columns, 2, [][]byte{rec})

	db1, err := OpenBytes("a", data, nil)
	require.NoError(t, err)
	db2, err := OpenBytes("a", data, nil)
	require.NoError(t, err)

	r1, err := db1.ReadRecords("t", -1)
	require.NoError(t, err)
	r2, err := db2.ReadRecords("t", -1)
	require.NoError(t, err)

	require.Equal(t, len(r1), len(r2))
	for i := range r1 {
		v1, _ := r1[i]["v"].AsInt()
		v2, _ := r2[i]["v"].AsInt()
		assert.Equal(t, v1, v2)
	}
}

func TestStringOffsetOutOfPoolRangeIsEmpty(t *testing.T) {
	b := newFileBuilder()
	columns := []builtColumn{{name: "s", typ: TypeStringOffset, offset: 0}}
	rec := make([]byte, 4)
	binary.BigEndian.PutUint32(rec, 999999)
	data := b.build("t", columns, 4, [][]byte{rec})

	db, err := OpenBytes("a", data, nil)
	require.NoError(t, err)
	records, err := db.ReadRecords("t", -1)
	require.NoError(t, err)
	assert.Equal(t, "", records[0]["s"].AsString())
}

func TestZeroStringOffsetIsEmpty(t *testing.T) {
	b := newFileBuilder()
	columns := []builtColumn{{name: "s", typ: TypeStringOffset, offset: 0}}
	rec := make([]byte, 4)
	data := b.build("t", columns, 4, [][]byte{rec})

	db, err := OpenBytes("a", data, nil)
	require.NoError(t, err)
	records, err := db.ReadRecords("t", -1)
	require.NoError(t, err)
	assert.Equal(t, "", records[0]["s"].AsString())
}
