package store

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrHoldNotFound        = errors.New("hold not found")
	ErrHoldExpired         = errors.New("hold expired")
	ErrInvalidState        = errors.New("invalid appointment state")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidTime         = errors.New("invalid time")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrSlotSizeOutOfRange  = errors.New("slot size out of range")
	ErrBufferOutOfRange    = errors.New("buffer out of range")
)
