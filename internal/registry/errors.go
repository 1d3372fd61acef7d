package registry

import "errors"

// ErrDuplicateName is returned when registering a name that already exists
var ErrDuplicateName = errors.New("spec name already exists")

// ErrNotFound is returned when operating on a name that was never registered
var ErrNotFound = errors.New("spec not found")
