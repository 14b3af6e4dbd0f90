package quota

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	// ErrQuotaExceeded is the sentinel wrapped by QuotaExceededError.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTopupBelowMinimum is the sentinel wrapped by TopupBelowMinimumError.
	ErrTopupBelowMinimum = errors.New("top-up below minimum amount")
)

// Channel identifies one of the two independently metered print channels.
type Channel int

const (
	// ChannelBW is the black & white print channel.
	ChannelBW Channel = iota
	// ChannelColor is the color print channel.
	ChannelColor
)

// String returns the human-readable channel name used in messages.
func (c Channel) String() string {
	if c == ChannelColor {
		return "Color"
	}
	return "B&W"
}

// QuotaExceededError is returned when a requested quantity exceeds the
// available amount for a channel. It carries the available and requested
// amounts so callers can build a precise user-facing message.
type QuotaExceededError struct {
	Channel   Channel
	Available int
	Requested int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("insufficient %s quota: available %d, requested %d",
		e.Channel, e.Available, e.Requested)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// TopupBelowMinimumError is returned when a nonzero top-up amount is below
// the configured minimum grant size.
type TopupBelowMinimumError struct {
	Channel Channel
	Amount  int
	Minimum int
}

func (e *TopupBelowMinimumError) Error() string {
	return fmt.Sprintf("%s top-up must be at least %d prints, got %d",
		e.Channel, e.Minimum, e.Amount)
}

func (e *TopupBelowMinimumError) Unwrap() error {
	return ErrTopupBelowMinimum
}
