package menutypes

import "errors"

// ErrInUse blocks deletion while daily menus still reference the type.
var ErrInUse = errors.New("menu type has menus associated with it; remove the menus first")
