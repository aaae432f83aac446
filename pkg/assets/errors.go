package assets

import "errors"

// ErrBaseURLRequired reports a missing assets base URL at startup.
var ErrBaseURLRequired = errors.New("assets base url is required")
