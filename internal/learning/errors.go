package learning

import "errors"

var (
	ErrMissingTemplateID = errors.New("usage entry has no template id")
	ErrInvalidFeedback   = errors.New("feedback must be positive, negative or neutral")
)
