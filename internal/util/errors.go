package util

import "errors"

var (
	ErrLevelNotFound    = errors.New("level not found")
	ErrEmptySentence    = errors.New("empty sentence")
	ErrImageUnavailable = errors.New("image generation failed")
)
