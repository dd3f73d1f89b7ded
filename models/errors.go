package models

import "errors"

// Kegagalan domain; controller yang memetakan ke status HTTP.
var (
	ErrInvalidState = errors.New("status tidak mengizinkan transisi ini")
	ErrOverBudget   = errors.New("pencairan melebihi alokasi anggaran")
)
