package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// Слот (участник, время встречи) уже занят другой консультацией.
	ErrConsultantSlotTaken = errors.New("consultant already has a consultation at this meeting time")
	ErrUserSlotTaken       = errors.New("user already has a consultation at this meeting time")
)
