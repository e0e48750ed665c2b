package catalog

import "errors"

var (
	// ErrCatalogNotFound is returned when the clubs file does not exist
	ErrCatalogNotFound = errors.New("club catalog not found")

	// ErrEmptyCatalog is returned when the clubs file holds no usable entry
	ErrEmptyCatalog = errors.New("club catalog has no valid clubs")
)
