// Package admingate grants upload capabilities after asking Telegram
// whether the candidate is an administrator of the configured chat.
// The check gates the upload affordance only; it is advisory, not a
// cryptographic guarantee.
package admingate

import (
	"context"
	"errors"

	"github.com/tgstories/telegram-stories-bot/internal/domain"
)

var ErrDenied = errors.New("admin capability denied")

type Gate interface {
	// RequestCapability asks the authorization provider once. Any
	// network error, malformed response or non-administrator status
	// fails closed with ErrDenied. Nothing is retried; asking again
	// takes a fresh user action.
	RequestCapability(ctx context.Context, userID int64) (domain.Capability, error)

	// Validate reports whether the capability was issued by this gate
	// during the current process lifetime.
	Validate(c domain.Capability) bool
}
