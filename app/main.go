package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/bloglist/internal/authservice"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/mailservice"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	auth        *authservice.Authenticator
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
}

func main() {
	envFile := flag.String("env", ".env", "path to the .env configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(*envFile)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbCfg := cfg.dbConfig()

	if cfg.MigrationsPath != "" {
		m, err := common.Migrate(cfg.MigrationsPath, dbCfg.DSN())
		if err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		m.Close()
		logger.Info("migrations applied", slog.String("source", cfg.MigrationsPath))
	}

	db, err := common.NewDB(dbCfg)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	broker, err := common.NewMessageBroker(cfg.rabbitMQURI())
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupUserExchange(broker)
	if err != nil {
		logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tokens, err := authservice.NewTokenService(cfg.tokenConfig())
	if err != nil {
		logger.Error("failed to create the token service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(cfg.CacheTTL, 10*time.Minute)
	userService := userservice.NewUserService(db, broker, cache, tokens, logger)

	app := &application{
		config:      cfg,
		logger:      logger,
		auth:        authservice.NewAuthenticator(tokens, userService),
		userService: userService,
		blogService: blogservice.NewBlogService(db),
		mailService: mailservice.NewMailService(broker, cfg.mailConfig(), logger),
	}
	defer app.mailService.Close()

	err = app.mailService.NotifyUserCreated()
	if err != nil {
		logger.Error("failed to start the user created consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = app.serve(cfg.addr())
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
