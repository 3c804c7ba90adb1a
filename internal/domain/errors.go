package domain

import "errors"

var (
	// ErrNotFound is returned when a schedule or backup does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRelationType is returned for relation types other than parent/parallel.
	ErrInvalidRelationType = errors.New("invalid relation type")
	// ErrSelfRelation is returned when a schedule is linked to itself.
	ErrSelfRelation = errors.New("schedule cannot relate to itself")
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
)
