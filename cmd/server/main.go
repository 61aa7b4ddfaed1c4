package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ChatGateway/internal/ai"
	"ChatGateway/internal/config"
	"ChatGateway/internal/handler"
	"ChatGateway/internal/server"
	"ChatGateway/internal/service/chat"
	"ChatGateway/internal/service/image"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	// создаём регистратор zap
	var logger *zap.Logger
	if cfg.DebugMode {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow(
		"Starting app",
		"DebugMode", cfg.DebugMode,
		"Provider", cfg.Chat.Provider,
		"Addr", cfg.HTTPAddr,
	)

	client, err := ai.New(ctx, cfg.Chat, sugar)
	if err != nil {
		sugar.Errorw("Failed to create chat client", "error", err)
		return
	}

	resolver := image.NewResolver(image.Options{
		HTTPClient: image.NewHTTPClient(image.FetchOptions{
			ConnectTimeout: cfg.Fetch.ConnectTimeout,
			ReadTimeout:    cfg.Fetch.ReadTimeout,
		}),
		MaxImageBytes: cfg.Fetch.MaxImageBytes,
		Logger:        sugar.Named("image"),
	})

	gateway := chat.NewGateway(client, resolver, image.StdMimeParser{}, sugar.Named("chat"))
	h := handler.NewHandler(gateway, cfg.Server.MaxRequestBytes, sugar.Named("http"))

	srv := server.New(cfg.HTTPAddr, cfg.Server, h, sugar.Named("server"))
	// останавливаем явно ниже, чтобы дождаться graceful shutdown
	if err := srv.Start(context.Background()); err != nil {
		sugar.Errorw("Failed to start HTTP server", "error", err)
		return
	}

	<-ctx.Done()
	if err := srv.Stop(context.Background()); err != nil {
		sugar.Warnw("HTTP server stop error", "error", err)
	}
	sugar.Infow("Server stopped")
}
