package visualizer

import (
	"fmt"
	"strings"

	"github.com/nao1215/gdpdash/internal/model"
)

// ColumnResolver picks the column that names a row's country.
//
// Without an Override the first column whose name contains "Country" but
// not "Code" wins, so "Country Name" is chosen over "Country Code".
//
// Design decision: The match is case-sensitive and picks the first hit in
// header order. World Bank exports always spell the column "Country Name",
// and a missing match is reported as model.ErrSchema instead of guessing, so
// files with other layouts set Override.
type ColumnResolver struct {
	// Override names the country column explicitly.
	Override string
}

// CountryColumn returns the country column of header.
func (r ColumnResolver) CountryColumn(header *model.Header) (string, error) {
	if r.Override != "" {
		if !header.Has(r.Override) {
			return "", fmt.Errorf("%w: country column %q not in header", model.ErrSchema, r.Override)
		}
		return r.Override, nil
	}
	for _, name := range header.Names() {
		if strings.Contains(name, "Country") && !strings.Contains(name, "Code") {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: no country name column in header %v", model.ErrSchema, header.Names())
}

// SelectCountryColumn resolves the country column of view heuristically.
func SelectCountryColumn(view model.View) (string, error) {
	return ColumnResolver{}.CountryColumn(view.Header())
}
