package telegramimpl

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GetChatMemberStatus asks the Telegram API for the member status of
// userID in the configured chat.
func (tg *TelegramImpl) GetChatMemberStatus(ctx context.Context, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	member, err := tg.TgBot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: tg.Config.Telegram.ChatID,
			UserID: userID,
		},
	})
	if err != nil {
		tg.Logger.Error("Error fetching chat member",
			"chatID", tg.Config.Telegram.ChatID,
			"userID", userID,
			"error", err)
		return "", fmt.Errorf("failed to get chat member: %w", err)
	}

	tg.Logger.Info("Fetched chat member status",
		"userID", userID,
		"status", member.Status)
	return member.Status, nil
}

// NotifyModerator sends a text message to the configured moderator.
func (tg *TelegramImpl) NotifyModerator(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(tg.Config.Telegram.Moderator, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending message to moderator",
			"moderator", tg.Config.Telegram.Moderator,
			"error", err)
		return fmt.Errorf("failed to notify moderator: %w", err)
	}

	tg.Logger.Info("Moderator notified",
		"moderator", tg.Config.Telegram.Moderator)
	return nil
}
