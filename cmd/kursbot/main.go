package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"kursbot/configs"
	"kursbot/internal/alert"
	"kursbot/internal/bot"
	"kursbot/internal/dashboard"
	"kursbot/internal/market"
	"kursbot/internal/notify"
	"kursbot/internal/p2p"
	"kursbot/internal/prefs"
)

const shutdownTimeout = 5 * time.Second

func main() {
	appConfig := configs.AppLoad()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if appConfig.BotToken == "" {
		logger.Fatal("BOT_TOKEN is required")
	}
	api, err := tgbotapi.NewBotAPI(appConfig.BotToken)
	if err != nil {
		logger.Fatalf("Telegram login failed: %v", err)
	}

	// Market clients and stores
	gecko := market.NewCoinGecko(&appConfig.Coingecko, logger)
	nbu := market.NewNBU(&appConfig.NBU, logger)
	source := market.NewSource(gecko, nbu)
	converter := market.NewConverter(gecko, nbu)

	alerts := alert.NewStore(appConfig.DataDir)
	prefsStore := prefs.NewStore(appConfig.DataDir)
	p2pStore := p2p.NewStore(appConfig.DataDir)

	// Alert checker with Telegram and dashboard delivery
	hub := notify.NewHub(logger)
	notifier := notify.Multi{notify.NewTelegram(api, prefsStore, logger), hub}
	checker := alert.NewChecker(alerts, source, notifier,
		appConfig.Checker.Interval, appConfig.Checker.StartupDelay, logger)

	// Telegram front end
	advisor := bot.NewAdvisor(gecko, nbu, logger)
	var feeds []string
	if appConfig.NewsFeedURLs != "" {
		feeds = strings.Split(appConfig.NewsFeedURLs, ",")
	}
	news := bot.NewNews(feeds...)
	tgBot := bot.New(api, alerts, prefsStore, p2pStore, converter, gecko, nbu, advisor, news, logger)

	// Admin dashboard
	router := dashboard.NewRouter(&dashboard.Config{
		SessionSecret: appConfig.Dashboard.Secret,
		Auth:          dashboard.NewAuthHandler(appConfig.Dashboard.User, appConfig.Dashboard.Pass),
		Sellers:       dashboard.NewSellerHandler(p2pStore, logger),
		AlertFeed:     dashboard.NewAlertFeedHandler(hub, logger),
	})
	srv := &http.Server{
		Addr:    net.JoinHostPort(appConfig.Dashboard.Host, appConfig.Dashboard.Port),
		Handler: router,
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		checker.Run(ctx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		tgBot.Run(ctx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Infof("Dashboard listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Dashboard server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Warn("Shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Dashboard shutdown: %v", err)
	}

	wg.Wait()
	logger.Info("All components stopped")
}
