package ebase

import "ofmlcore/internal/core"

// ColumnDescriptor is immutable after table load: the column's name, its
// declared type, its byte offset within a packed record, its declared byte
// size, and raw flags copied verbatim from the file.
type ColumnDescriptor struct {
	Name           string
	Type           TypeTag
	RecordOffset   int
	DeclaredSize   int
	Flags          uint16
}

// TableDescriptor describes one table's layout: its columns, how many
// records it holds, the fixed size of one packed record, and the absolute
// file offset of the first record.
type TableDescriptor struct {
	Name        string
	Columns     []ColumnDescriptor
	RecordCount int
	RecordSize  int
	DataOffset  int64
}

// ColumnByName returns the column descriptor with the given name, or false
// if no such column exists in this table.
func (t *TableDescriptor) ColumnByName(name string) (ColumnDescriptor, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// Record is a mapping from column name to decoded primitive value. Produced
// on demand by the reader; the caller owns it and may mutate it freely.
type Record map[string]core.Value
