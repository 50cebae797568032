package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrEventNotFound    = fmt.Errorf("event %w", ErrNotFound)
	ErrTicketNotFound   = fmt.Errorf("ticket %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

	// 票務
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrCodeGenerationFailed = errors.New("qr code generation failed")
	ErrDuplicateTicket      = errors.New("user already holds a ticket for this event")
	ErrEventNotOnSale       = errors.New("event is not published")
	ErrNotConfirmed         = errors.New("ticket not confirmed")
	ErrAlreadyUsed          = errors.New("ticket already used")
	ErrAlreadyCancelled     = errors.New("ticket already cancelled")

	// 活動
	ErrDuplicateSlug     = errors.New("slug already exists")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrHashFailure = errors.New("password hash failure")
)
