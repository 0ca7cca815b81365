package repositories

import "errors"

// ErrNotFound means the referenced record does not exist. Controllers map
// it to a 404; everything else coming out of a repository is a database
// fault.
var ErrNotFound = errors.New("record not found")
