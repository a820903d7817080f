package telegram

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go

type Client interface {
	// GetChatMemberStatus returns the membership status Telegram
	// reports for userID in the configured chat.
	GetChatMemberStatus(ctx context.Context, userID int64) (string, error)

	// NotifyModerator sends a MarkdownV2 message to the configured
	// moderator. No response content is awaited or validated.
	NotifyModerator(ctx context.Context, text string) error
}
