package client

import "errors"

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadResponse    = errors.New("bad server response")
	ErrUploadRejected = errors.New("upload rejected by server")
)
