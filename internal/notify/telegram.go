// Package notify delivers fired alert notifications. Delivery is best
// effort: a failure is reported to the caller and never retried.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"kursbot/internal/alert"
	"kursbot/internal/market"
	"kursbot/internal/prefs"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends fired alerts to the owner's chat in their language.
type Telegram struct {
	api    sender
	prefs  *prefs.Store
	logger *logrus.Logger
}

func NewTelegram(api sender, prefsStore *prefs.Store, logger *logrus.Logger) *Telegram {
	return &Telegram{api: api, prefs: prefsStore, logger: logger}
}

func (t *Telegram) Notify(_ context.Context, fire alert.Fire) error {
	msg := tgbotapi.NewMessage(fire.OwnerID, FormatFire(t.prefs.Lang(fire.OwnerID), fire))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send alert to %d: %w", fire.OwnerID, err)
	}
	t.logger.Infof("Delivered alert for %s to %d", fire.Symbol, fire.OwnerID)
	return nil
}

// FormatFire renders the notification text for one fired alert.
func FormatFire(lang string, fire alert.Fire) string {
	sign := "≥"
	if fire.Direction == alert.Below {
		sign = "≤"
	}
	unit := "USD"
	if _, ok := market.FXPairs[fire.Symbol]; ok {
		unit = "UAH"
	}
	if lang == prefs.LangEN {
		return fmt.Sprintf("🔔 Alert triggered: %s %s %.2f\nCurrent price: %.2f %s",
			fire.Symbol, sign, fire.Target, fire.Price, unit)
	}
	return fmt.Sprintf("🔔 Спрацював алерт: %s %s %.2f\nПоточна ціна: %.2f %s",
		fire.Symbol, sign, fire.Target, fire.Price, unit)
}
