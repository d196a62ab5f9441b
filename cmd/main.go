package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "assetview/docs"
	"assetview/internal/handler"
	"assetview/internal/service"
	webHandler "assetview/internal/ui/handler"
	"assetview/internal/view"
	"assetview/pkg/integrations/coincap"
	"assetview/pkg/integrations/memcache"
	"assetview/pkg/integrations/wmPubsub"
	"assetview/pkg/utils"

	"github.com/gin-gonic/gin"
)

// @title Asset Detail API
// @version 1.0
// @description CoinCap asset summary and 30 day price history

// @host localhost:8080
// @BasePath /

func main() {
	utils.LoadEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := coincap.NewClientWithKey(utils.GetEnv("COINCAP_API_KEY", ""))
	client.BaseURL = utils.GetEnv("COINCAP_API_URL", client.BaseURL)
	client.Client.Timeout = utils.GetEnvDuration("HTTP_TIMEOUT", 10*time.Second)

	statePubSub, err := wmPubsub.New(
		wmPubsub.WithContext(ctx),
		wmPubsub.WithLogger(logger),
		wmPubsub.WithTopic("asset-state"),
	)
	if err != nil {
		log.Fatal("Failed to create state pubsub:", err)
	}

	assetDetailSvc, err := service.NewAssetDetailService(
		service.WithAssetDetailContext(ctx),
		service.WithAssetDetailLogger(logger),
		service.WithAssetDetailFetcher(client),
		service.WithAssetDetailCache(memcache.New[string, *service.Query]()),
		service.WithAssetDetailPublisher(statePubSub),
		service.WithAssetDetailStaleTime(utils.GetEnvDuration("QUERY_STALE_TIME", 30*time.Second)),
		service.WithAssetDetailGCTime(utils.GetEnvDuration("QUERY_GC_TIME", 5*time.Minute)),
	)
	if err != nil {
		log.Fatal("Failed to create asset detail service:", err)
	}

	if err := assetDetailSvc.Start(); err != nil {
		log.Fatal("Failed to start asset detail service:", err)
	}

	locale := view.ParseLocale(utils.GetEnv("DEFAULT_LOCALE", "en-US"))

	gin.SetMode(utils.GetEnv("GIN_MODE", gin.DebugMode))
	r := gin.Default()

	h, err := handler.New(
		handler.WithEngine(r),
		handler.WithAssetQuerier(assetDetailSvc),
		handler.WithLogger(logger),
		handler.WithStateSubscriber(statePubSub),
		handler.WithDefaultLocale(locale),
		handler.WithSwagger(),
	)
	if err != nil {
		log.Fatal("Failed to create handler:", err)
	}
	if err := h.Setup(); err != nil {
		log.Fatal("Failed to setup routes:", err)
	}

	web, err := webHandler.New(
		webHandler.WithEngine(r),
		webHandler.WithAssetLoader(assetDetailSvc),
		webHandler.WithLogger(logger),
		webHandler.WithTemplatesDir(utils.GetEnv("TEMPLATES_DIR", "./internal/ui/templates")),
		webHandler.WithDefaultLocale(locale),
		webHandler.WithListPath(utils.GetEnv("LIST_PATH", "/")),
	)
	if err != nil {
		log.Fatal("Failed to create web handler:", err)
	}
	if err := web.Setup(); err != nil {
		log.Fatal("Failed to setup web routes:", err)
	}

	port := utils.GetEnv("APP_PORT", "8080")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
		assetDetailSvc.Stop()
		os.Exit(0)
	}()

	logger.Info("starting asset detail view", "port", port, "api", client.BaseURL, "locale", locale.String())
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
