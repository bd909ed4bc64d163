package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/gdpdash/internal/model"
)

// utf8BOM is written by spreadsheet exports in front of the first header.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV parses delimited text with a header row.
// Records may be shorter or longer than the header: missing trailing
// columns are absent, extra fields are dropped.
func ParseCSV(data []byte) (*model.Dataset, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no header row", model.ErrParse)
		}
		return nil, fmt.Errorf("%w: %w", model.ErrParse, err)
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrParse, err)
		}
		records = append(records, rec)
	}

	return model.NewDataset(header, records), nil
}
