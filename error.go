package rangecover

import "errors"

//goland:noinspection GoUnusedGlobalVariable
var (
	ErrEmptyTree       = errors.New("tree is empty")
	ErrCorrupt         = errors.New("tree invariant violated")
	ErrInvalidStrategy = errors.New("invalid insert strategy")
)
