// Package loader reads GDP tables into a model.Dataset.
//
// Two formats are supported, chosen by file extension: delimited text
// (.csv and anything else) and Excel workbooks (.xlsx, first sheet). Both
// require a header row and nothing more; year columns are discovered but
// not validated. A missing file is a model.ErrNotFound, an unreadable or
// header-less file a model.ErrParse.
//
// Every dataset carries the hex SHA3-256 digest of its source bytes so runs
// over different revisions of the same file can be told apart in history.
package loader
