package compressor

import (
	"encoding/binary"
	"fmt"
)

// Table is a row-major table of integers.
type Table struct {
	entries  []int
	rowCount int
	colCount int
}

func NewTable(entries []int, colCount int) (*Table, error) {
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &Table{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

// UniqueRows stores each distinct row once. RowNums maps an original row to
// its row in Entries.
type UniqueRows struct {
	Entries  []int
	RowNums  []int
	RowCount int
	ColCount int
}

// CompressRows removes duplicate rows from a row-major table.
func CompressRows(entries []int, colCount int) (*UniqueRows, error) {
	orig, err := NewTable(entries, colCount)
	if err != nil {
		return nil, err
	}

	var unique []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	for row := 0; row < orig.rowCount; row++ {
		start := row * orig.colCount
		key := rowKey(orig.entries[start : start+orig.colCount])
		rowNum, ok := key2RowNum[key]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[key] = rowNum
			unique = append(unique, orig.entries[start:start+orig.colCount]...)
		}
		rowNums[row] = rowNum
	}

	return &UniqueRows{
		Entries:  unique,
		RowNums:  rowNums,
		RowCount: orig.rowCount,
		ColCount: orig.colCount,
	}, nil
}

// rowKey encodes a row as varints. Entries may be negative (shift actions).
func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*binary.MaxVarintLen64)
	b := make([]byte, binary.MaxVarintLen64)
	for _, v := range row {
		n := binary.PutVarint(b, int64(v))
		buf = append(buf, b[:n]...)
	}
	return string(buf)
}

func (t *UniqueRows) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.RowCount || col < 0 || col >= t.ColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return t.Entries[t.RowNums[row]*t.ColCount+col], nil
}
