package envelope

import "errors"

var ErrNil = errors.New("nil envelope")
