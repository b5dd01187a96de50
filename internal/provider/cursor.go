package provider

import (
	"fmt"
	"strconv"
)

// Cursor iterates the rows of a query result.
type Cursor interface {
	Columns() []string
	Next() bool
	// String returns the column value as text; ok is false for NULL.
	String(col int) (s string, ok bool)
	Int64(col int) (int64, error)
	Err() error
	Close() error
}

// ColumnIndex is the resolved position of a column, or Missing.
type ColumnIndex struct {
	pos   int
	found bool
}

// Missing is the ColumnIndex of an absent column.
var Missing = ColumnIndex{pos: -1}

// Found returns the ColumnIndex at pos.
func Found(pos int) ColumnIndex {
	return ColumnIndex{pos: pos, found: true}
}

// Pos returns the position and whether the column exists.
func (c ColumnIndex) Pos() (int, bool) {
	return c.pos, c.found
}

// Found reports whether the column exists.
func (c ColumnIndex) Found() bool {
	return c.found
}

// Lookup resolves the first of names present in columns.
func Lookup(columns []string, names ...string) ColumnIndex {
	for _, name := range names {
		for i, c := range columns {
			if c == name {
				return Found(i)
			}
		}
	}
	return Missing
}

// StaticCursor serves rows held in memory.
type StaticCursor struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
}

// NewStaticCursor creates a cursor over rows; each row must match columns.
func NewStaticCursor(columns []string, rows ...[]any) *StaticCursor {
	return &StaticCursor{columns: columns, rows: rows, pos: -1}
}

func (c *StaticCursor) Columns() []string {
	return c.columns
}

func (c *StaticCursor) Next() bool {
	if c.closed || c.pos+1 >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *StaticCursor) String(col int) (string, bool) {
	v := c.value(col)
	if v == nil {
		return "", false
	}
	return formatValue(v), true
}

func (c *StaticCursor) Int64(col int) (int64, error) {
	return toInt64(c.value(col))
}

func (c *StaticCursor) Err() error {
	return nil
}

func (c *StaticCursor) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (c *StaticCursor) Closed() bool {
	return c.closed
}

func (c *StaticCursor) value(col int) any {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil
	}
	row := c.rows[c.pos]
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case *string:
		if t == nil {
			return ""
		}
		return *t
	default:
		return fmt.Sprint(t)
	}
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case []byte:
		return strconv.ParseInt(string(t), 10, 64)
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("provider: cannot convert %T to int64", v)
	}
}
