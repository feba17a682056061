package services

import "errors"

// ErrNotAvailable is returned when the upstream exhausted all fetch attempts
// or returned unusable data. Callers surface it as "no data for this symbol";
// the underlying transport error never crosses this boundary.
var ErrNotAvailable = errors.New("market data not available")

// ErrEmptyDataset marks an attempt whose response parsed but carried no
// usable rows. It counts as a failed attempt inside the retry loop.
var ErrEmptyDataset = errors.New("upstream returned empty dataset")
