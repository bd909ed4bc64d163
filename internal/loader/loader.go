package loader

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/gdpdash/internal/model"
	"golang.org/x/crypto/sha3"
)

// Load reads the dataset at path. Files ending in .xlsx are read as Excel
// workbooks, everything else as CSV.
func Load(path string) (*model.Dataset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied data path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("data file %s: %w", path, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	var ds *model.Dataset
	if IsExcel(path) {
		ds, err = ParseExcel(data)
	} else {
		ds, err = ParseCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("data file %s: %w", path, err)
	}

	ds.Source = path
	ds.Checksum = Checksum(data)
	return ds, nil
}

// IsExcel reports whether path names an Excel workbook.
func IsExcel(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// Checksum returns the hex SHA3-256 digest of data.
func Checksum(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
