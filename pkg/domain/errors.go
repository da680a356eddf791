package domain

import "errors"

// ErrTypeNotFound is returned when a type name is not declared in the TypeMap.
var ErrTypeNotFound = errors.New("type not found")

// ErrNotAnItem is returned when a composite type receives a value that is not
// an object.
var ErrNotAnItem = errors.New("value is not an item")

// ErrNotAList is returned when a multiple field receives a value that is not
// a sequence.
var ErrNotAList = errors.New("value is not a list")
