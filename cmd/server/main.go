package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scerios/quiz/auth"
	"github.com/scerios/quiz/config"
	"github.com/scerios/quiz/crypto"
	"github.com/scerios/quiz/game"
	"github.com/scerios/quiz/migrations"
	"github.com/scerios/quiz/sessions"
	"github.com/scerios/quiz/storage"
	"github.com/scerios/quiz/web"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func newCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scuiz",
		Short:         "Live trivia session server: one admin, many players, one game board.",
		Args:          cobra.ExactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.BindEnv(cmd.Flags()); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cfg.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cfg *config.Config) error {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()

	if err := migrations.Migrate(cfg.PostgresURL); err != nil {
		return err
	}
	log.Info().Msg("migrations applied")

	repo, err := storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	store, err := sessions.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CookieMaxAge)
	if err != nil {
		return err
	}

	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, cfg.CookieMaxAge)

	authService := auth.NewService(repo, repo, passwordHasher, tokenManager)
	authHandler := auth.NewHandler(authService, store, cfg.CookieMaxAge, cfg.CookieSecure, log)

	coord := game.NewCoordinator(repo, game.NewTickerGen(), log)
	started := make(chan struct{})
	go coord.Run(started)
	<-started

	wsHandler := game.NewWSHandler(coord, log)
	webHandler := web.NewHandler(repo, cfg.BoardURL, log)

	r := CreateServer(cfg.AllowedOrigins)

	r.POST("/register", authHandler.RegisterHandler)
	r.POST("/login", authHandler.LoginHandler)
	r.GET("/logout", authHandler.LogoutHandler)
	r.POST("/adminLogin", authHandler.AdminLoginHandler)

	r.GET("/ws", wsHandler.Handle)

	api := r.Group("/api")
	api.Use(authHandler.RequirePlayerMiddleware())
	api.GET("/board", webHandler.BoardHandler)

	panel := r.Group("/controlPanel")
	panel.Use(authHandler.RequireAdminMiddleware())
	panel.GET("/qr", webHandler.QRHandler)

	log.Info().Str("addr", cfg.ListenAddr()).Msg("listening")
	return r.Run(cfg.ListenAddr())
}

func main() {
	cfg := &config.Config{}
	if err := newCmd(cfg).Execute(); err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
