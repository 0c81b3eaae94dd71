package ebase

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"ofmlcore/internal/bytecodec"
	"ofmlcore/internal/core"
)

// Database is an opened EBASE file: its version, its table directory, and
// the shared string pool used by every table. It owns its backing bytes and
// its string memoization for its entire lifetime.
type Database struct {
	path         string
	data         []byte
	majorVersion uint16
	minorVersion uint16
	tables       map[string]*TableDescriptor
	pool         *bytecodec.StringPool
	log          *zap.Logger
}

// Open reads and validates path's header and table directory. The typical
// working set is well under 100MB, so the whole file is read into memory
// once to give the reader buffered, seekable random access without juggling
// an *os.File for the handle's lifetime.
func Open(path string, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ebase: reading %s: %w", path, err)
	}
	return OpenBytes(path, data, log)
}

// OpenBytes opens an already-loaded byte slice, as Open does. name is used
// only for error messages and logging.
func OpenBytes(name string, data []byte, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(data) < headerOffset+headerLen || !bytes.Equal(data[magicOffset:magicOffset+magicLen], Magic[:]) {
		got := []byte{}
		if len(data) >= magicLen {
			got = data[magicOffset : magicOffset+magicLen]
		}
		return nil, &ErrInvalidMagic{Got: got}
	}

	major, ok := bytecodec.ReadU16(data, headerOffset+hdrMajorVersion)
	if !ok {
		return nil, &ErrParse{Message: "truncated header"}
	}
	if major != supportedVersion {
		return nil, &ErrUnsupportedVersion{Major: major}
	}
	minor, _ := bytecodec.ReadU16(data, headerOffset+hdrMinorVersion)
	poolOffset, _ := bytecodec.ReadU32(data, headerOffset+hdrStringPoolOff)
	poolSize, _ := bytecodec.ReadU32(data, headerOffset+hdrStringPoolSize)
	tableCount, ok := bytecodec.ReadU32(data, headerOffset+hdrTableCount)
	if !ok {
		return nil, &ErrParse{Message: "truncated header: table count"}
	}

	pool := bytecodec.NewStringPool(data, poolOffset, poolSize)

	db := &Database{
		path:         name,
		data:         data,
		majorVersion: major,
		minorVersion: minor,
		tables:       make(map[string]*TableDescriptor),
		pool:         pool,
		log:          log,
	}

	if err := db.readDirectory(int(tableCount)); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) readDirectory(tableCount int) error {
	for i := 0; i < tableCount; i++ {
		entryOffset := directoryOffset + i*directoryEntrySize
		nameOffset, ok := bytecodec.ReadU32(db.data, entryOffset)
		if !ok {
			return &ErrParse{Message: "truncated table directory"}
		}
		tableOffset, ok := bytecodec.ReadU32(db.data, entryOffset+4)
		if !ok {
			return &ErrParse{Message: "truncated table directory"}
		}

		name := db.pool.Resolve(nameOffset)
		if name == "" {
			db.log.Warn("ebase: table directory entry with unresolvable name, dropping", zap.Int("index", i))
			continue
		}

		desc, err := db.readTableDescriptor(name, int64(tableOffset))
		if err != nil {
			db.log.Warn("ebase: malformed table descriptor dropped", zap.String("table", name), zap.Error(err))
			continue
		}
		db.tables[name] = desc
	}
	return nil
}

func (db *Database) readTableDescriptor(name string, offset int64) (*TableDescriptor, error) {
	base := int(offset)
	if base < 0 || base+tableHeaderSize > len(db.data) {
		return nil, &ErrParse{Message: "table header out of range"}
	}
	recordCount, ok := bytecodec.ReadU32(db.data, base+tblRecordCount)
	if !ok {
		return nil, &ErrParse{Message: "truncated table header"}
	}
	columnCount, ok := bytecodec.ReadU16(db.data, base+tblColumnCount)
	if !ok {
		return nil, &ErrParse{Message: "truncated table header"}
	}
	recordSize, ok := bytecodec.ReadU16(db.data, base+tblRecordSize)
	if !ok {
		return nil, &ErrParse{Message: "truncated table header"}
	}
	columnArrayOffset, ok := bytecodec.ReadU32(db.data, base+tblColumnArray)
	if !ok {
		return nil, &ErrParse{Message: "truncated table header"}
	}
	dataOffset, ok := bytecodec.ReadU32(db.data, base+tblDataOffset)
	if !ok {
		return nil, &ErrParse{Message: "truncated table header"}
	}

	columns := make([]ColumnDescriptor, 0, columnCount)
	for i := 0; i < int(columnCount); i++ {
		colOffset := int(columnArrayOffset) + i*columnDescSize
		col, err := db.readColumnDescriptor(colOffset)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		columns = append(columns, col)
	}

	return &TableDescriptor{
		Name:        name,
		Columns:     columns,
		RecordCount: int(recordCount),
		RecordSize:  int(recordSize),
		DataOffset:  int64(dataOffset),
	}, nil
}

func (db *Database) readColumnDescriptor(offset int) (ColumnDescriptor, error) {
	if offset < 0 || offset+columnDescSize > len(db.data) {
		return ColumnDescriptor{}, &ErrParse{Message: "column descriptor out of range"}
	}
	nameOffset, ok := bytecodec.ReadU32(db.data, offset+colNameOffset)
	if !ok {
		return ColumnDescriptor{}, &ErrParse{Message: "truncated column descriptor"}
	}
	typeID, ok := bytecodec.ReadU16(db.data, offset+colTypeID)
	if !ok {
		return ColumnDescriptor{}, &ErrParse{Message: "truncated column descriptor"}
	}
	flags, _ := bytecodec.ReadU16(db.data, offset+colFlags)
	recOffset, ok := bytecodec.ReadU16(db.data, offset+colRecOffset)
	if !ok {
		return ColumnDescriptor{}, &ErrParse{Message: "truncated column descriptor"}
	}

	tag := TypeTag(typeID)
	size, _ := tag.FixedSize()

	return ColumnDescriptor{
		Name:         db.pool.Resolve(nameOffset),
		Type:         tag,
		RecordOffset: int(recOffset),
		DeclaredSize: size,
		Flags:        flags,
	}, nil
}

// Tables returns the names of every table that survived open-time
// validation, in no particular order.
func (db *Database) Tables() []string {
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	return names
}

// HasTable reports whether name names a table that survived open.
func (db *Database) HasTable(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// TableOf returns the descriptor for name, or ErrInvalidTable if it does not
// exist.
func (db *Database) TableOf(name string) (*TableDescriptor, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, &ErrInvalidTable{Name: name}
	}
	return t, nil
}

// ReadRecords decodes every record of the named table, in index order. If
// limit is non-negative, at most limit records are returned.
func (db *Database) ReadRecords(table string, limit int) ([]Record, error) {
	t, err := db.TableOf(table)
	if err != nil {
		return nil, err
	}
	n := t.RecordCount
	if limit >= 0 && limit < n {
		n = limit
	}
	records := make([]Record, 0, n)
	for k := 0; k < n; k++ {
		rec, err := db.decodeRecord(t, k)
		if err != nil {
			return nil, fmt.Errorf("ebase: table %s record %d: %w", table, k, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadRecord decodes a single record by index. k must satisfy
// 0 <= k < table.RecordCount.
func (db *Database) ReadRecord(table string, k int) (Record, error) {
	t, err := db.TableOf(table)
	if err != nil {
		return nil, err
	}
	return db.decodeRecord(t, k)
}

func (db *Database) decodeRecord(t *TableDescriptor, k int) (rec Record, err error) {
	if k < 0 || k >= t.RecordCount {
		return nil, &ErrParse{Message: fmt.Sprintf("record index %d out of range [0,%d)", k, t.RecordCount)}
	}

	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = &ErrParse{Message: "panic decoding record", Cause: fmt.Errorf("%v", r)}
		}
	}()

	start := t.DataOffset + int64(k)*int64(t.RecordSize)
	end := start + int64(t.RecordSize)
	if start < 0 || end > int64(len(db.data)) {
		return nil, &ErrParse{Message: "record out of file bounds"}
	}
	scratch := db.data[start:end]

	rec = make(Record, len(t.Columns))
	for _, col := range t.Columns {
		rec[col.Name] = db.decodeColumn(scratch, col)
	}
	return rec, nil
}

func (db *Database) decodeColumn(scratch []byte, col ColumnDescriptor) core.Value {
	switch col.Type {
	case TypeI8:
		v, ok := bytecodec.ReadI8(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.IntValue(int64(v))
	case TypeU8:
		v, ok := bytecodec.ReadU8(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.UintValue(uint64(v))
	case TypeI16:
		v, ok := bytecodec.ReadI16(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.IntValue(int64(v))
	case TypeU16:
		v, ok := bytecodec.ReadU16(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.UintValue(uint64(v))
	case TypeI32:
		v, ok := bytecodec.ReadI32(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.IntValue(int64(v))
	case TypeU32:
		v, ok := bytecodec.ReadU32(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.UintValue(uint64(v))
	case TypeF32:
		v, ok := bytecodec.ReadF32(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.FloatValue(float64(v))
	case TypeF64:
		v, ok := bytecodec.ReadF64(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.FloatValue(v)
	case TypeStringOffset:
		off, ok := bytecodec.ReadU32(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.StringValue(db.pool.Resolve(off))
	case TypeBlob:
		off, ok := bytecodec.ReadU32(scratch, col.RecordOffset)
		if !ok {
			return core.Null()
		}
		return core.BlobValue(off)
	case TypeStringInline:
		if col.RecordOffset < 0 || col.RecordOffset >= len(scratch) {
			return core.Null()
		}
		return core.StringValue(bytecodec.DecodeText(scratch[col.RecordOffset:]))
	default:
		return core.Null()
	}
}

// Close releases the reader's in-memory copy of the file. It never fails.
func (db *Database) Close() error {
	db.data = nil
	return nil
}

var _ io.Closer = (*Database)(nil)
