package joinery

import "errors"

var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidShape    = errors.New("invalid join shape")
	ErrAmbiguous       = errors.New("more than one identity at a singular level")
	ErrDeserialization = errors.New("deserialization error")
	ErrIdentity        = errors.New("record has no usable identity")
	ErrBind            = errors.New("cannot bind value")
)
