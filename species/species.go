// Package species defines the prey and predator species records and the
// name-ordered pools a simulation community is built from.
package species

import "errors"

// ErrDuplicate is returned when a species name is already taken in a pool.
var ErrDuplicate = errors.New("duplicate species name")
