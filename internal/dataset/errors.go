package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for CP values that are not integers in
	// [MinCP, MaxCP]. No file is touched when it is returned.
	ErrInvalidInput = errors.New("invalid CP value")

	// ErrEmptyDataset matches an *EmptyDatasetError.
	ErrEmptyDataset = errors.New("empty dataset")
)

// LoadError reports a resource that could not be opened or parsed.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// EmptyDatasetError reports a resource that parsed but had no row with a
// Pokémon name.
type EmptyDatasetError struct {
	Resource string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("no data found in %s", e.Resource)
}

func (e *EmptyDatasetError) Is(target error) bool {
	return target == ErrEmptyDataset
}

// Resource extracts the resource identifier carried by a loader error.
func Resource(err error) (string, bool) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Resource, true
	}
	var emptyErr *EmptyDatasetError
	if errors.As(err, &emptyErr) {
		return emptyErr.Resource, true
	}
	return "", false
}
