package look

import "errors"

// User-facing notices. Operations that return one of these abort before any
// network call, except ErrUnresolved which ends the resolution cascade.
var (
	ErrEmptyLook       = errors.New("add at least one item to the look")
	ErrNoTargets       = errors.New("select at least one target category")
	ErrInvalidCategory = errors.New("invalid category")
	ErrMissingFields   = errors.New("name, category and color are required")
	ErrNotPersisted    = errors.New("item has no id; refresh the catalog first")
	ErrInvalidGarment  = errors.New("item is missing name, category or color")
	ErrUnresolved      = errors.New("could not fetch the full attributes of this suggestion; search the catalog and add it from there")
	ErrBusy            = errors.New("a recommendation request is already in progress")
	ErrCancelled       = errors.New("cancelled")
)
