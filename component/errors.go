package component

import "errors"

var ErrPortNotFound = errors.New("port not found")
