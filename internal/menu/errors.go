package menu

import "errors"

// Domain errors for menu planning.
var (
	// ErrNotFound indicates the requested menu was not found.
	ErrNotFound = errors.New("menu not found")
	// ErrInvalidID indicates a non-positive identifier.
	ErrInvalidID = errors.New("invalid menu ID")

	// ErrConflict indicates a menu already exists for the date and menu type.
	ErrConflict = errors.New("a menu already exists for this date and menu type")

	// Line item errors.
	ErrLineNotFound    = errors.New("menu line not found")
	ErrProductNotFound = errors.New("product not found")
	ErrKitNotFound     = errors.New("kit not found")
	ErrInvalidQuantity = errors.New("per-capita quantity must be greater than zero")

	// Duplication errors.
	ErrNoSourceMenus  = errors.New("no menus found for the source menu type in this month")
	ErrSameTypeTarget = errors.New("target menu type must differ from the source")
)
