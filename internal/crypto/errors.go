package crypto

import "errors"

var ErrBadIdentityLength = errors.New("identity must be 32 bytes")
