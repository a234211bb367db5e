package loader

import "errors"

var (
	ErrNoRoot       = errors.New("loader: definition has no root")
	ErrUnknownNode  = errors.New("loader: unknown node")
	ErrUnknownType  = errors.New("loader: unknown node type")
	ErrCycle        = errors.New("loader: node references itself")
	ErrInvalidParam = errors.New("loader: invalid parameter")
	ErrFormat       = errors.New("loader: unsupported file format")
)
