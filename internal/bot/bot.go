// Package bot implements the Telegram front end: menus, the unit
// converter, alert management and the informational views.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"kursbot/internal/alert"
	"kursbot/internal/market"
	"kursbot/internal/p2p"
	"kursbot/internal/prefs"
)

// pending input states set by menu buttons.
const (
	stateConvert = "convert"
	stateAlert   = "alert"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	alerts    *alert.Store
	prefs     *prefs.Store
	p2p       *p2p.Store
	converter *market.Converter
	gecko     *market.CoinGecko
	nbu       *market.NBU
	advisor   *Advisor
	news      *News
	logger    *logrus.Logger

	mu      sync.Mutex
	pending map[int64]string
}

func New(api *tgbotapi.BotAPI, alerts *alert.Store, prefsStore *prefs.Store, p2pStore *p2p.Store,
	converter *market.Converter, gecko *market.CoinGecko, nbu *market.NBU,
	advisor *Advisor, news *News, logger *logrus.Logger) *Bot {
	return &Bot{
		api:       api,
		alerts:    alerts,
		prefs:     prefsStore,
		p2p:       p2pStore,
		converter: converter,
		gecko:     gecko,
		nbu:       nbu,
		advisor:   advisor,
		news:      news,
		logger:    logger,
		pending:   make(map[int64]string),
	}
}

// Run consumes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Infof("Bot started as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("Recovered while handling update: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	lang := b.prefs.Lang(userID)

	if msg.IsCommand() {
		b.handleCommand(msg, lang)
		return
	}
	if !b.prefs.Accepted(userID) {
		b.sendDisclaimer(userID, lang)
		return
	}

	if state := b.takePending(userID); state != "" {
		switch state {
		case stateConvert:
			b.handleConvertInput(ctx, userID, lang, msg.Text)
		case stateAlert:
			b.handleAlertInput(userID, lang, msg.Text)
		}
		return
	}

	if ordinalText, ok := cutOffCommand(msg.Text); ok {
		b.handleOff(userID, lang, ordinalText)
		return
	}

	action, ok := buttonAction(msg.Text)
	if !ok {
		b.reply(userID, T(lang, "unknown"), mainKeyboard(lang))
		return
	}
	b.handleAction(ctx, userID, lang, action)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message, lang string) {
	userID := msg.From.ID
	switch msg.Command() {
	case "start":
		if !b.prefs.Accepted(userID) {
			b.sendDisclaimer(userID, lang)
			return
		}
		b.reply(userID, T(lang, "welcome"), mainKeyboard(lang))
	case "lang":
		b.reply(userID, T(lang, "pick.language"), languageKeyboard())
	case "help":
		b.reply(userID, T(lang, "help.text"), nil)
	default:
		b.reply(userID, T(lang, "unknown"), mainKeyboard(lang))
	}
}

func (b *Bot) handleAction(ctx context.Context, userID int64, lang, action string) {
	switch action {
	case btnConvert:
		b.setPending(userID, stateConvert)
		b.reply(userID, T(lang, "convert.prompt"), nil)
	case btnRates:
		b.sendRates(ctx, userID, lang)
	case btnAlerts:
		b.reply(userID, T(lang, "alerts.menu"), alertsKeyboard(lang))
	case btnAnalytics:
		b.sendAnalytics(ctx, userID, lang)
	case btnAdvisor:
		b.sendAdvisor(ctx, userID, lang)
	case btnExchanges:
		b.sendExchanges(ctx, userID, lang)
	case btnNews:
		b.sendNews(ctx, userID, lang)
	case btnP2P:
		b.reply(userID, p2pView(lang, b.p2p.List()), nil)
	case btnHelp:
		b.reply(userID, T(lang, "help.text"), nil)
	case btnLanguage:
		b.reply(userID, T(lang, "pick.language"), languageKeyboard())
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Debugf("Answer callback: %v", err)
	}
	userID := cb.From.ID
	lang := b.prefs.Lang(userID)

	switch cb.Data {
	case "disclaimer:accept":
		if err := b.prefs.Accept(userID); err != nil {
			b.logger.Errorf("Persist acceptance for %d: %v", userID, err)
		}
		b.reply(userID, T(lang, "welcome"), mainKeyboard(lang))
	case "disclaimer:decline":
		b.reply(userID, T(lang, "declined"), tgbotapi.NewRemoveKeyboard(true))
	case "lang:ua", "lang:en":
		lang = strings.TrimPrefix(cb.Data, "lang:")
		if err := b.prefs.SetLang(userID, lang); err != nil {
			b.logger.Errorf("Persist language for %d: %v", userID, err)
		}
		b.reply(userID, T(lang, "language.saved"), mainKeyboard(lang))
	case "alerts:add":
		b.setPending(userID, stateAlert)
		b.reply(userID, T(lang, "alerts.prompt"), nil)
	case "alerts:list":
		b.reply(userID, alertsView(lang, b.alerts.ListForOwner(userID)), nil)
	case "alerts:how":
		b.reply(userID, T(lang, "alerts.howtext"), nil)
	}
}

func (b *Bot) handleConvertInput(ctx context.Context, userID int64, lang, text string) {
	amount, src, dst, ok := market.ParseConvertQuery(text)
	if !ok {
		b.setPending(userID, stateConvert)
		b.reply(userID, T(lang, "convert.bad"), nil)
		return
	}

	result, note, err := b.converter.Convert(ctx, amount, src, dst)
	switch {
	case err == nil:
		b.reply(userID, fmt.Sprintf("%s %s = %s %s\n%s", trimFloat(amount), src, trimFloat(result), dst, note), nil)
	case errors.Is(err, market.ErrPairUnsupported):
		b.reply(userID, T(lang, "convert.unknown"), nil)
	default:
		b.logger.Warnf("Conversion %s->%s failed: %v", src, dst, err)
		b.reply(userID, T(lang, "convert.fail"), nil)
	}
}

func (b *Bot) handleAlertInput(userID int64, lang, text string) {
	symbol, direction, target, err := alert.ParseRule(text)
	if err != nil {
		b.setPending(userID, stateAlert)
		b.reply(userID, T(lang, "alerts.bad"), nil)
		return
	}
	if err := b.alerts.Append(alert.New(userID, symbol, direction, target)); err != nil {
		b.logger.Errorf("Append alert for %d: %v", userID, err)
		b.reply(userID, T(lang, "alerts.savefail"), nil)
		return
	}
	b.reply(userID, T(lang, "alerts.saved"), mainKeyboard(lang))
}

func (b *Bot) handleOff(userID int64, lang, ordinalText string) {
	ordinal, err := strconv.Atoi(ordinalText)
	if err != nil {
		b.reply(userID, T(lang, "alerts.offformat"), nil)
		return
	}
	found, err := b.alerts.Deactivate(userID, ordinal)
	if err != nil {
		b.logger.Errorf("Deactivate alert %d for %d: %v", ordinal, userID, err)
	}
	if !found {
		b.reply(userID, T(lang, "alerts.offmiss"), nil)
		return
	}
	b.reply(userID, T(lang, "alerts.offok"), nil)
}

func (b *Bot) sendRates(ctx context.Context, userID int64, lang string) {
	ids := make([]string, 0, len(coinOrder))
	for _, entry := range coinOrder {
		ids = append(ids, entry.id)
	}
	rows, err := b.gecko.MarketsSnapshot(ctx, ids)
	if err != nil {
		b.logger.Warnf("Markets snapshot failed: %v", err)
		rows = nil
	}
	fx, err := b.nbu.Rates(ctx, time.Time{})
	if err != nil {
		b.logger.Warnf("NBU rates failed: %v", err)
		fx = nil
	}
	if rows == nil && fx == nil {
		b.reply(userID, T(lang, "convert.fail"), nil)
		return
	}
	trend, err := b.nbu.RateHistory(ctx, "USD", 7)
	if err != nil {
		b.logger.Debugf("USD trend unavailable: %v", err)
	}
	b.reply(userID, ratesView(lang, rows, fx, trend), nil)
}

func (b *Bot) sendAnalytics(ctx context.Context, userID int64, lang string) {
	usd, err := b.nbu.RateHistory(ctx, "USD", 14)
	if err != nil {
		b.logger.Warnf("USD history failed: %v", err)
	}
	eur, err := b.nbu.RateHistory(ctx, "EUR", 14)
	if err != nil {
		b.logger.Warnf("EUR history failed: %v", err)
	}
	b.reply(userID, analyticsView(lang, usd, eur), nil)
}

func (b *Bot) sendAdvisor(ctx context.Context, userID int64, lang string) {
	summary, err := b.advisor.Summary(ctx, lang)
	if err != nil {
		b.logger.Warnf("Advisor summary failed: %v", err)
		b.reply(userID, T(lang, "advisor.fail"), nil)
		return
	}
	b.reply(userID, summary, nil)
}

func (b *Bot) sendExchanges(ctx context.Context, userID int64, lang string) {
	tickers, err := b.gecko.BTCTickers(ctx)
	if err != nil {
		b.logger.Warnf("BTC tickers failed: %v", err)
		b.reply(userID, T(lang, "exchanges.fail"), nil)
		return
	}
	b.reply(userID, exchangesView(lang, tickers), nil)
}

func (b *Bot) sendNews(ctx context.Context, userID int64, lang string) {
	items, err := b.news.Latest(ctx)
	if err != nil {
		b.logger.Warnf("News fetch failed: %v", err)
		b.reply(userID, T(lang, "news.fail"), nil)
		return
	}
	b.reply(userID, newsView(lang, items), nil)
}

func (b *Bot) sendDisclaimer(userID int64, lang string) {
	b.reply(userID, T(lang, "disclaimer"), disclaimerKeyboard(lang))
}

func (b *Bot) reply(chatID int64, text string, keyboard any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warnf("Send to %d: %v", chatID, err)
	}
}

func (b *Bot) setPending(userID int64, state string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = state
}

func (b *Bot) takePending(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	state := b.pending[userID]
	delete(b.pending, userID)
	return state
}

// cutOffCommand recognizes "off <n>" messages in either case.
func cutOffCommand(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "off") {
		return "", false
	}
	return fields[1], true
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func mainKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(T(lang, btnConvert)),
			tgbotapi.NewKeyboardButton(T(lang, btnRates)),
			tgbotapi.NewKeyboardButton(T(lang, btnAlerts)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(T(lang, btnAnalytics)),
			tgbotapi.NewKeyboardButton(T(lang, btnAdvisor)),
			tgbotapi.NewKeyboardButton(T(lang, btnExchanges)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(T(lang, btnNews)),
			tgbotapi.NewKeyboardButton(T(lang, btnP2P)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(T(lang, btnHelp)),
			tgbotapi.NewKeyboardButton(T(lang, btnLanguage)),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func disclaimerKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(T(lang, "accept"), "disclaimer:accept"),
			tgbotapi.NewInlineKeyboardButtonData(T(lang, "decline"), "disclaimer:decline"),
		),
	)
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇦 Українська", "lang:ua"),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang:en"),
		),
	)
}

func alertsKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(T(lang, "alerts.add"), "alerts:add"),
			tgbotapi.NewInlineKeyboardButtonData(T(lang, "alerts.list"), "alerts:list"),
			tgbotapi.NewInlineKeyboardButtonData(T(lang, "alerts.how"), "alerts:how"),
		),
	)
}
