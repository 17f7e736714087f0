package sface

import "errors"

var (
	// ErrSidecarUnavailable indicates the model sidecar could not be reached
	// after retries.
	ErrSidecarUnavailable = errors.New("sface sidecar unavailable")

	// ErrInvalidResponse indicates the sidecar returned a payload that could
	// not be parsed.
	ErrInvalidResponse = errors.New("invalid sface response")

	// ErrNoFaceInResponse indicates an embed call found no face to embed.
	ErrNoFaceInResponse = errors.New("no face in sface response")
)
