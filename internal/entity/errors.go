package entity

import "errors"

var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrOpportunityNotFound  = errors.New("opportunity not found")
	ErrLeadAlreadyConverted = errors.New("lead has already been converted")
	ErrBusy                 = errors.New("another change to this record is still in progress")
	ErrInvalidStatus        = errors.New("invalid lead status")
	ErrInvalidStage         = errors.New("invalid opportunity stage")
	ErrInvalidSortField     = errors.New("invalid sort field")
)

// IsNotFound reports whether err is one of the entity lookup misses.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound) || errors.Is(err, ErrOpportunityNotFound)
}
