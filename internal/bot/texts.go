package bot

import "kursbot/internal/prefs"

// Menu button labels double as message-routing keys, so they are
// listed explicitly rather than looked up through T.
const (
	btnConvert   = "btn.convert"
	btnRates     = "btn.rates"
	btnAlerts    = "btn.alerts"
	btnAnalytics = "btn.analytics"
	btnAdvisor   = "btn.advisor"
	btnExchanges = "btn.exchanges"
	btnNews      = "btn.news"
	btnP2P       = "btn.p2p"
	btnHelp      = "btn.help"
	btnLanguage  = "btn.language"
)

var texts = map[string]map[string]string{
	prefs.LangUA: {
		btnConvert:   "💱 Конвертер",
		btnRates:     "📊 Курси",
		btnAlerts:    "🔔 Алерти",
		btnAnalytics: "📈 Аналітика",
		btnAdvisor:   "🧠 Порадник",
		btnExchanges: "🏦 Біржі",
		btnNews:      "📰 Новини",
		btnP2P:       "🤝 Обмінники",
		btnHelp:      "ℹ️ Допомога",
		btnLanguage:  "🌐 Мова",

		"welcome":        "Привіт! Я допоможу стежити за курсами валют і криптовалют. Оберіть дію в меню.",
		"disclaimer":     "⚠️ Цей бот надає інформацію лише в довідкових цілях і не є фінансовою порадою. Продовжуючи, ви погоджуєтесь із цим.",
		"accept":         "✅ Погоджуюсь",
		"decline":        "❌ Відмовляюсь",
		"declined":       "Без згоди бот працювати не може. Надішліть /start, коли передумаєте.",
		"pick.language":  "Оберіть мову:",
		"language.saved": "Мову збережено.",

		"convert.prompt":  "Введіть запит, наприклад: 100 USD UAH або 0.5 BTC USD",
		"convert.bad":     "Не розумію запит. Формат: <сума> <з валюти> <у валюту>, наприклад 100 USD UAH.",
		"convert.fail":    "Не вдалося отримати курс. Спробуйте пізніше.",
		"convert.unknown": "Ця пара не підтримується.",

		"alerts.menu":      "Алерти: що зробити?",
		"alerts.add":       "➕ Додати",
		"alerts.list":      "📋 Мої алерти",
		"alerts.how":       "❓ Як це працює",
		"alerts.howtext":   "Алерт складається з символу, напрямку і цілі.\nНапр.: BTC ABOVE 65000 або USD UAH BELOW 40.\nКоли ціна перетне ціль, я надішлю повідомлення один раз і вимкну алерт.\nВимкнути вручну: off <номер зі списку>.",
		"alerts.prompt":    "Введіть алерт: <символ> <ABOVE|BELOW> <ціль>",
		"alerts.bad":       "Не розумію правило. Приклад: BTC ABOVE 65000",
		"alerts.saved":     "Алерт збережено. Перевіряю ціни кожні кілька секунд.",
		"alerts.savefail":  "Не вдалося зберегти алерт. Спробуйте ще раз.",
		"alerts.empty":     "У вас немає алертів.",
		"alerts.offok":     "Алерт вимкнено.",
		"alerts.offmiss":   "Алерт з таким номером не знайдено.",
		"alerts.offformat": "Формат: off <номер>",

		"rates.title":     "Поточні курси",
		"analytics.title": "Динаміка курсу за 14 днів",
		"analytics.fail":  "Не вдалося зібрати дані за період.",
		"advisor.fail":    "Порадник тимчасово недоступний.",
		"advisor.title":   "Огляд ринку",
		"advisor.up":      "ринок росте, продавати поспішати не варто",
		"advisor.down":    "ринок падає, з купівлею краще зачекати",
		"advisor.flat":    "ринок спокійний, суттєвих рухів немає",
		"advisor.stale":   "(дані могли застаріти)",
		"exchanges.title": "Топ бірж за обсягом BTC",
		"exchanges.fail":  "Не вдалося отримати дані бірж.",
		"news.title":      "Останні новини",
		"news.fail":       "Не вдалося завантажити новини.",
		"p2p.title":       "Обмінники",
		"p2p.empty":       "Наразі немає активних пропозицій.",
		"help.text":       "Що я вмію:\n💱 конвертувати валюти та криптовалюти\n📊 показувати поточні курси\n🔔 надсилати алерти при перетині ціни\n📈 малювати динаміку за 14 днів\n🧠 давати огляд ринку\n🏦 порівнювати біржі за обсягом BTC\n📰 показувати новини\n🤝 показувати пропозиції обмінників\nМова: /lang",
		"unknown":         "Не розумію. Скористайтесь меню нижче.",
	},
	prefs.LangEN: {
		btnConvert:   "💱 Converter",
		btnRates:     "📊 Rates",
		btnAlerts:    "🔔 Alerts",
		btnAnalytics: "📈 Analytics",
		btnAdvisor:   "🧠 Advisor",
		btnExchanges: "🏦 Exchanges",
		btnNews:      "📰 News",
		btnP2P:       "🤝 P2P",
		btnHelp:      "ℹ️ Help",
		btnLanguage:  "🌐 Language",

		"welcome":        "Hi! I track fiat and crypto prices for you. Pick an action from the menu.",
		"disclaimer":     "⚠️ This bot provides information for reference only and is not financial advice. By continuing you agree to this.",
		"accept":         "✅ Accept",
		"decline":        "❌ Decline",
		"declined":       "The bot cannot work without your consent. Send /start when you change your mind.",
		"pick.language":  "Pick a language:",
		"language.saved": "Language saved.",

		"convert.prompt":  "Type a query, e.g. 100 USD UAH or 0.5 BTC USD",
		"convert.bad":     "Cannot parse that. Format: <amount> <from> <to>, e.g. 100 USD UAH.",
		"convert.fail":    "Could not fetch the rate. Try again later.",
		"convert.unknown": "That pair is not supported.",

		"alerts.menu":      "Alerts: what would you like to do?",
		"alerts.add":       "➕ Add",
		"alerts.list":      "📋 My alerts",
		"alerts.how":       "❓ How it works",
		"alerts.howtext":   "An alert is a symbol, a direction and a target.\nE.g.: BTC ABOVE 65000 or USD UAH BELOW 40.\nWhen the price crosses the target I message you once and switch the alert off.\nTo disable one manually: off <number from the list>.",
		"alerts.prompt":    "Type an alert: <symbol> <ABOVE|BELOW> <target>",
		"alerts.bad":       "Cannot parse that rule. Example: BTC ABOVE 65000",
		"alerts.saved":     "Alert saved. I check prices every few seconds.",
		"alerts.savefail":  "Could not save the alert. Please try again.",
		"alerts.empty":     "You have no alerts.",
		"alerts.offok":     "Alert disabled.",
		"alerts.offmiss":   "No alert with that number.",
		"alerts.offformat": "Format: off <number>",

		"rates.title":     "Current rates",
		"analytics.title": "Exchange rates over the last 14 days",
		"analytics.fail":  "Could not collect data for the period.",
		"advisor.fail":    "The advisor is temporarily unavailable.",
		"advisor.title":   "Market overview",
		"advisor.up":      "the market is climbing, no rush to sell",
		"advisor.down":    "the market is falling, better to wait before buying",
		"advisor.flat":    "the market is calm, no significant moves",
		"advisor.stale":   "(data may be out of date)",
		"exchanges.title": "Top exchanges by BTC volume",
		"exchanges.fail":  "Could not fetch exchange data.",
		"news.title":      "Latest news",
		"news.fail":       "Could not load the news.",
		"p2p.title":       "P2P offers",
		"p2p.empty":       "No active offers right now.",
		"help.text":       "What I can do:\n💱 convert fiat and crypto amounts\n📊 show current rates\n🔔 alert you when a price crosses a target\n📈 chart 14-day rate history\n🧠 give a market overview\n🏦 compare exchanges by BTC volume\n📰 show the news\n🤝 list P2P offers\nLanguage: /lang",
		"unknown":         "I don't understand. Please use the menu below.",
	},
}

// T looks a phrase up for the given language, falling back to
// Ukrainian and then to the key itself.
func T(lang, key string) string {
	if phrases, ok := texts[lang]; ok {
		if phrase, ok := phrases[key]; ok {
			return phrase
		}
	}
	if phrase, ok := texts[prefs.LangUA][key]; ok {
		return phrase
	}
	return key
}

// buttonAction maps a pressed menu label back to its key, in any
// language, so the router does not depend on the user's setting.
func buttonAction(label string) (string, bool) {
	for _, phrases := range texts {
		for _, key := range []string{btnConvert, btnRates, btnAlerts, btnAnalytics, btnAdvisor, btnExchanges, btnNews, btnP2P, btnHelp, btnLanguage} {
			if phrases[key] == label {
				return key, true
			}
		}
	}
	return "", false
}
