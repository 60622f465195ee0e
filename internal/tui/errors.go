package tui

import (
	"errors"
	"fmt"

	"pokecp/pokecp/internal/dataset"
)

// GeneratorHint names the external tool that writes the CSVs.
const GeneratorHint = "calculate_cp.py"

// describe turns a load failure into the text of the error region.
func describe(err error, cp int) string {
	var loadErr *dataset.LoadError
	switch {
	case errors.Is(err, dataset.ErrInvalidInput):
		return fmt.Sprintf("Please enter a valid CP value (%d-%d).", dataset.MinCP, dataset.MaxCP)
	case errors.Is(err, dataset.ErrEmptyDataset):
		resource, _ := dataset.Resource(err)
		return "No data found in " + resource
	case errors.As(err, &loadErr):
		return fmt.Sprintf("Error loading %s: %v. Make sure you have run %s --cp %d first.",
			loadErr.Resource, loadErr.Err, GeneratorHint, cp)
	default:
		return "Error loading data: " + err.Error()
	}
}
