package domain

import "errors"

var (
	// ErrInvalidColumn means a requested column is absent or has the wrong type.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrDegenerateRange means a numeric column has min == max, so it cannot be binned.
	ErrDegenerateRange = errors.New("degenerate range")
	// ErrEmptySelection means no categorical value was selected or there is nothing to aggregate.
	ErrEmptySelection = errors.New("empty selection")
	// ErrInvalidParams wraps request parameter validation failures.
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrUnknownDataset means the dataset name matched neither dataset.
	ErrUnknownDataset = errors.New("unknown dataset")
)
