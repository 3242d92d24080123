package types

import "errors"

var (
	ErrDonorNotFound    = errors.New("donor not found")
	ErrRequestNotFound  = errors.New("blood request not found")
	ErrInvalidBloodType = errors.New("invalid blood type")
	ErrMissingBloodType = errors.New("blood request is missing a blood type")
)
