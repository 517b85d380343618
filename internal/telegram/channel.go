package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"clicker_webapp/internal/logger"
)

// ChannelChecker answers channel membership questions through the Bot API.
// The bot must be an administrator of every checked channel.
type ChannelChecker struct {
	bot *tgbotapi.BotAPI
}

func NewChannelChecker(token string) (*ChannelChecker, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot api: %w", err)
	}
	logger.Info("channel checker authorized", "username", bot.Self.UserName)
	return &ChannelChecker{bot: bot}, nil
}

// IsMember reports whether userID currently belongs to channel ("@name").
func (c *ChannelChecker) IsMember(ctx context.Context, channel string, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}

	member, err := c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channel,
			UserID:             userID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("get chat member: %w", err)
	}
	return IsMemberStatus(member.Status, member.IsMember), nil
}

// IsMemberStatus maps a chat member status to membership. Restricted users
// count only while they are still in the chat.
func IsMemberStatus(status string, isMember bool) bool {
	switch status {
	case "creator", "administrator", "member":
		return true
	case "restricted":
		return isMember
	default:
		return false
	}
}
