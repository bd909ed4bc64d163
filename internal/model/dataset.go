package model

import (
	"encoding/json"
	"strconv"
)

// Header is the ordered list of column names of a Dataset together with a
// name index and the year columns found in it.
// A Header is shared by every Row of its Dataset and never modified.
type Header struct {
	names []string
	index map[string]int
	years []string
}

// NewHeader builds a Header from column names. When a name repeats, the
// first occurrence wins, matching how a CSV dict reader would expose it.
func NewHeader(names []string) *Header {
	h := &Header{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, dup := h.index[name]; dup {
			continue
		}
		h.index[name] = i
		if IsYearColumn(name) {
			h.years = append(h.years, name)
		}
	}
	return h
}

// Names returns a copy of the column names in file order.
func (h *Header) Names() []string {
	return append([]string(nil), h.names...)
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.names)
}

// Has reports whether the header contains the column.
func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Index returns the position of the column.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// Years returns the year-named columns in file order.
func (h *Header) Years() []string {
	return append([]string(nil), h.years...)
}

// IsYearColumn reports whether a column name is a four digit year.
func IsYearColumn(name string) bool {
	if len(name) != 4 {
		return false
	}
	_, err := strconv.Atoi(name)
	return err == nil && name[0] != '-' && name[0] != '+'
}

// Row is one record of a Dataset. Values are looked up by column name.
type Row struct {
	header *Header
	cells  []string
}

// NewRow binds cells to a header. Cells beyond the header are dropped;
// missing trailing cells are reported as absent by Value.
func NewRow(header *Header, cells []string) Row {
	if len(cells) > header.Len() {
		cells = cells[:header.Len()]
	}
	return Row{header: header, cells: cells}
}

// Value returns the cell for column and whether it is present.
// A column that is not in the header, or that the record was too short to
// reach, is absent. An empty cell is present with the value "".
func (r Row) Value(column string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i, ok := r.header.Index(column)
	if !ok || i >= len(r.cells) {
		return "", false
	}
	return r.cells[i], true
}

// Get returns the cell for column, or "" when it is absent.
func (r Row) Get(column string) string {
	v, _ := r.Value(column)
	return v
}

// Map returns the row as a column name to value map. Absent cells are omitted.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.cells))
	if r.header == nil {
		return m
	}
	for i, name := range r.header.names {
		if i >= len(r.cells) {
			break
		}
		if _, exists := m[name]; !exists {
			m[name] = r.cells[i]
		}
	}
	return m
}

// MarshalJSON encodes the row as a JSON object.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// Dataset is the loaded GDP table: rows in file order over a shared header.
// It is read-only after loading and safe for concurrent readers.
type Dataset struct {
	// Source is the path the dataset was loaded from.
	Source string

	// Checksum is the hex SHA3-256 digest of the source bytes.
	Checksum string

	header *Header
	rows   []Row
}

// NewDataset builds a Dataset from a header and its records.
func NewDataset(header []string, records [][]string) *Dataset {
	h := NewHeader(header)
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = NewRow(h, rec)
	}
	return &Dataset{header: h, rows: rows}
}

// Header returns the dataset header.
func (d *Dataset) Header() *Header {
	return d.header
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Row returns the i-th row.
func (d *Dataset) Row(i int) Row {
	return d.rows[i]
}

// Rows returns a copy of the row slice.
func (d *Dataset) Rows() []Row {
	return append([]Row(nil), d.rows...)
}

// All returns a View over every row.
func (d *Dataset) All() View {
	return View{header: d.header, rows: d.rows}
}

// Years returns the year columns of the dataset.
func (d *Dataset) Years() []string {
	return d.header.Years()
}

// View is an ordered subsequence of a Dataset's rows. It shares the
// dataset header and never modifies the dataset.
type View struct {
	header *Header
	rows   []Row
}

// NewView builds a View over rows sharing header.
func NewView(header *Header, rows []Row) View {
	return View{header: header, rows: rows}
}

// Header returns the header shared with the source dataset.
func (v View) Header() *Header {
	if v.header == nil {
		return NewHeader(nil)
	}
	return v.header
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	return len(v.rows)
}

// Row returns the i-th row of the view.
func (v View) Row(i int) Row {
	return v.rows[i]
}

// Rows returns a copy of the view's rows.
func (v View) Rows() []Row {
	return append([]Row(nil), v.rows...)
}
