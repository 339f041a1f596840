package models

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrDuplicateVote   = errors.New("voter already voted in this session")
	ErrEmptyComment    = errors.New("comment is empty")
	ErrEmptySubmission = errors.New("either a choice or a comment is required")
	ErrInvalidChoice   = errors.New("choice must be one of interested, neutral, not-interested")
	ErrCommentTooLong  = errors.New("comment is too long")
	ErrInvalidExpected = errors.New("expected participants must not be negative")
	ErrThemeTooLong    = errors.New("theme is too long")
)
