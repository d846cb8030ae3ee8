package worker

import "errors"

// ErrUnknownKind is returned for jobs no handler exists for.
var ErrUnknownKind = errors.New("unknown job kind")
