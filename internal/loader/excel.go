package loader

import (
	"bytes"
	"fmt"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/xuri/excelize/v2"
)

// ParseExcel reads the first sheet of an .xlsx workbook. The first row is
// the header. Trailing empty cells are trimmed by the workbook reader and
// therefore reported as absent.
func ParseExcel(data []byte) (*model.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", model.ErrParse)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", model.ErrParse, sheets[0], err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", model.ErrParse, sheets[0])
	}

	return model.NewDataset(rows[0], rows[1:]), nil
}
