package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RobertWHurst/hashroute"
	"github.com/RobertWHurst/hashroute/internal/config"
	"github.com/RobertWHurst/hashroute/memorylocation"
	"github.com/RobertWHurst/hashroute/natslocation"
	"github.com/RobertWHurst/hashroute/wire"
	"github.com/RobertWHurst/hashroute/wslocation"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	codec, err := wire.CodecByName(cfg.Codec)
	if err != nil {
		logger.Fatal("invalid codec", zap.Error(err))
	}

	switch cfg.Provider {
	case config.WebSocketProvider:
		err = serveWebSocket(cfg, codec, logger)
	case config.NatsProvider:
		err = followNats(cfg, codec, logger)
	case config.MemoryProvider:
		err = runScripted(cfg, logger)
	}
	if err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newRouter binds the demo application's routes to history.
func newRouter(history *hashroute.History, logger *zap.Logger) (*hashroute.Router, error) {
	var router *hashroute.Router

	handlers := map[string]hashroute.Handler{
		"home": hashroute.HandlerFunc(func(ctx *hashroute.Context) {
			logger.Info("showing home")
		}),
		"user": hashroute.HandlerFunc(func(ctx *hashroute.Context) {
			logger.Info("showing user", zap.String("id", ctx.Param("id")))
		}),
		"search": hashroute.HandlerFunc(func(ctx *hashroute.Context) {
			values, err := ctx.QueryValues()
			if err != nil {
				logger.Warn("invalid query", zap.Error(err))
			}
			logger.Info("searching",
				zap.String("query", ctx.Param("query")),
				zap.String("sort", values.Get("sort")),
			)
		}),
		"file": hashroute.HandlerFunc(func(ctx *hashroute.Context) {
			logger.Info("showing file", zap.String("path", ctx.Param("path")))
		}),
		"legacyUser": hashroute.HandlerFunc(func(ctx *hashroute.Context) {
			fragment, err := hashroute.MustPattern("users/:id").Path(map[string]string{"id": ctx.Param("id")})
			if err != nil {
				logger.Warn("cannot redirect", zap.Error(err))
				return
			}
			if _, err := router.Navigate(fragment, hashroute.WithTrigger(), hashroute.WithReplace()); err != nil {
				logger.Warn("redirect failed", zap.Error(err))
			}
		}),
	}

	router, err := hashroute.NewRouter(history, hashroute.RouterConfig{
		Routes: []hashroute.RouteMapping{
			{Pattern: "", Name: "home"},
			{Pattern: "users/:id", Name: "user"},
			{Pattern: "search(/:query)", Name: "search"},
			{Pattern: "files/*path", Name: "file"},
			{Pattern: "profile/:id", Name: "legacyUser"},
		},
		Handlers: handlers,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return router, nil
}

// serveWebSocket routes the location of every connected browser with its
// own history.
func serveWebSocket(cfg *config.Config, codec wire.Codec, logger *zap.Logger) error {
	http.HandleFunc("/", func(res http.ResponseWriter, req *http.Request) {
		connLogger := logger.With(zap.String("remote", req.RemoteAddr))

		provider, err := wslocation.Accept(res, req, &wslocation.AcceptOptions{
			Options:        wslocation.Options{Codec: codec, Logger: connLogger},
			OriginPatterns: cfg.OriginPatterns,
		})
		if err != nil {
			connLogger.Warn("failed to accept websocket connection", zap.Error(err))
			return
		}
		if err := provider.ReadInitial(req.Context()); err != nil {
			connLogger.Warn("client did not report its location", zap.Error(err))
			return
		}

		history := hashroute.NewHistory(provider, hashroute.WithLogger(connLogger))
		if _, err := newRouter(history, connLogger); err != nil {
			connLogger.Error("failed to bind routes", zap.Error(err))
			_ = provider.Close(4000, "internal error")
			return
		}
		if _, err := history.Start(cfg.StartOptions()); err != nil {
			connLogger.Warn("failed to start history", zap.Error(err))
		}

		if err := provider.Run(req.Context()); err != nil {
			connLogger.Info("connection closed", zap.Error(err))
		}
		history.Stop()
	})

	logger.Info("starting server", zap.String("addr", cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, nil)
}

// followNats routes the location shared on a NATS channel until the process
// is signaled.
func followNats(cfg *config.Config, codec wire.Codec, logger *zap.Logger) error {
	conn, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer conn.Close()

	provider, err := natslocation.New(conn, cfg.NatsChannel, &natslocation.Options{
		Codec:  codec,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to location channel: %w", err)
	}
	defer provider.Close()

	history := hashroute.NewHistory(provider, hashroute.WithLogger(logger))
	if _, err := newRouter(history, logger); err != nil {
		return err
	}
	if _, err := history.Start(cfg.StartOptions()); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("following location channel, press Ctrl+C to stop", zap.String("channel", cfg.NatsChannel))
	<-sigChan

	history.Stop()
	return nil
}

// runScripted walks an in-memory location through a few fragments.
func runScripted(cfg *config.Config, logger *zap.Logger) error {
	provider := memorylocation.New("#")
	history := hashroute.NewHistory(provider, hashroute.WithLogger(logger))
	if _, err := newRouter(history, logger); err != nil {
		return err
	}
	if _, err := history.Start(cfg.StartOptions()); err != nil {
		return err
	}

	steps := []string{"users/42", "search/go?sort=stars", "files/docs/readme.md", "profile/7"}
	for _, step := range steps {
		if _, err := history.Navigate(step, hashroute.WithTrigger()); err != nil {
			return err
		}
		time.Sleep(100 * time.Millisecond)
	}
	provider.Back()

	logger.Info("scripted run finished",
		zap.String("fragment", history.Fragment()),
		zap.Strings("entries", provider.Entries()),
	)
	return nil
}

func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
