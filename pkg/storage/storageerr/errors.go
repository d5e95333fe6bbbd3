// Package storageerr holds errors shared by the storage backends and their
// factory, which cannot import each other.
package storageerr

import "errors"

var ErrNotFound = errors.New("object not found")
