package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/cyberzid/feed/internal/auth"
	"github.com/cyberzid/feed/internal/broadcast"
	"github.com/cyberzid/feed/internal/handler"
	"github.com/cyberzid/feed/internal/server"
	"github.com/cyberzid/feed/internal/store"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const demoPassword = "demo123"

type App struct {
	logger          *zap.Logger
	settings        Settings
	restServer      *server.RESTServer
	websocketServer *server.WebSocketServer
}

func NewApp(logger *zap.Logger, settings Settings) (*App, error) {
	demoPasswordHash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}

	domainStore := store.New()
	domainStore.Seed(demoPasswordHash)

	authenticator := auth.NewAuthenticator(settings.JWTSecret)

	// With push disabled only the REST surface is mounted and mutations
	// broadcast into the void.
	var broadcaster broadcast.Broadcaster = broadcast.NopBroadcaster{}
	var websocketServer *server.WebSocketServer

	if settings.PushEnabled {
		registry := broadcast.NewRegistry(logger)
		broadcaster = broadcast.NewEventBroadcaster(logger, registry)

		originChecker := server.NewOriginChecker(strings.Split(settings.CORSOrigin, ","))
		websocketUpgrader := &websocket.Upgrader{
			ReadBufferSize:    1024,
			WriteBufferSize:   1024,
			CheckOrigin:       originChecker.Check,
			EnableCompression: true,
		}

		websocketServer = server.NewWebSocketServer(
			logger,
			websocketUpgrader,
			registry,
			handler.NewSendMessageHandler(domainStore, broadcaster),
		)
	}

	restServer := server.NewRESTServer(
		logger,
		authenticator,
		settings.CORSOrigin,
		handler.NewHealthHandler(settings.Environment),
		handler.NewLoginHandler(domainStore, authenticator),
		handler.NewRegisterHandler(domainStore, authenticator),
		handler.NewListPostsHandler(domainStore),
		handler.NewCreatePostHandler(domainStore, broadcaster),
		handler.NewLikePostHandler(domainStore, broadcaster),
		handler.NewDeletePostHandler(domainStore, broadcaster),
		handler.NewListUsersHandler(domainStore),
		handler.NewUserProfileHandler(domainStore),
		handler.NewListMessagesHandler(domainStore),
	)

	return &App{
		logger:          logger,
		settings:        settings,
		restServer:      restServer,
		websocketServer: websocketServer,
	}, nil
}

func (a *App) startHttpServer(ctx context.Context) {
	notifyCtx, notifyCtxCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer notifyCtxCancel()

	address := fmt.Sprintf("0.0.0.0:%d", a.settings.Port)

	router := mux.NewRouter().
		PathPrefix(a.settings.BasePath).
		Subrouter()

	a.restServer.Register(router)
	if a.websocketServer != nil {
		a.websocketServer.Register(router)
	}

	httpServer := &http.Server{
		Addr:    address,
		Handler: router,
	}

	a.logger.Info("starting http server",
		zap.String("address", address),
		zap.Bool("pushEnabled", a.settings.PushEnabled))

	go func() {
		err := httpServer.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("failed to start http server",
				zap.Error(err))
		}
	}()

	<-notifyCtx.Done()

	a.logger.Info("stopping http server")

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCtxCancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Fatal("http server shutdown failed",
			zap.Error(err))
	}

	a.logger.Info("http server stopped")
}

func main() {
	ctx := context.Background()

	bootstrapLogger, _ := zap.NewDevelopment()

	var settings Settings
	_, err := env.UnmarshalFromEnviron(&settings)
	if err != nil {
		bootstrapLogger.Fatal("failed to parse settings from environment", zap.Error(err))
	}

	logger, err := buildZapLogger(settings.Environment)
	if err != nil {
		bootstrapLogger.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	app, err := NewApp(logger, settings)
	if err != nil {
		logger.Fatal("failed to setup", zap.Error(err))
	}

	app.startHttpServer(ctx)
}
