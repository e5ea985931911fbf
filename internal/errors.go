package internal

import "errors"

var (
	ErrInvalidDate     = errors.New("file name is not a YYYY-MM-DD date")
	ErrMissingID       = errors.New("missing or non-numeric id attribute")
	ErrMissingColumn   = errors.New("missing column")
	ErrDuplicateColumn = errors.New("column already present")
	ErrInvalidMode     = errors.New("query mode must be one of and, or, exact")
	ErrEmptyQuery      = errors.New("empty query")
	ErrNoTranscripts   = errors.New("no transcript files found")
	ErrNotFound        = errors.New("document not found")
)
