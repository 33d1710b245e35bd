package gate

import "errors"

var (
	errNilCookieCodec   = errors.New("gate: nil cookie codec")
	errNilSessionFinder = errors.New("gate: nil session finder")
)
