package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"lawdesk/internal/models"
)

// TelegramAlerter pushes back-office alerts about new consultations to the
// firm's admin chat. Like SMS dispatch, alerts are best effort.
type TelegramAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramAlerter(token string, chatID int64, logger *zerolog.Logger) (*TelegramAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramAlerter{bot: bot, chatID: chatID, logger: logger}, nil
}

// AlertNewConsultation sends a short summary of a fresh intake to the admin
// chat.
func (a *TelegramAlerter) AlertNewConsultation(c *models.Consultation) {
	text := fmt.Sprintf("새 상담 신청\n유형: %s\n이름: %s\n전화: %s", c.RequestType, c.Name, c.Phone)
	if c.RequiresSlot() && !c.PreferredDate.IsZero() {
		text += fmt.Sprintf("\n희망일시: %s %s", c.PreferredDate.Format("2006-01-02"), c.PreferredTime)
	}
	if c.OfficeLocation != "" {
		text += "\n사무소: " + c.OfficeLocation
	}

	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		a.logger.Error().Err(err).Int64("consultation_id", c.ID).Msg("telegram alert failed")
	}
}
