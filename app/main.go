package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/commentservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/mailservice"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	userService    *userservice.UserService
	blogService    *blogservice.BlogService
	commentService *commentservice.CommentService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupBlogExchange(broker)
	if err != nil {
		logger.Error("failed to setup the blog exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// user lookups and blog stats
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:         cfg,
		logger:         logger,
		userService:    userservice.NewUserService(db, cache, []byte(cfg.JWTSecret), cfg.JWTTTL),
		blogService:    blogservice.NewBlogService(db, cache),
		commentService: commentservice.NewCommentService(db, broker, logger),
		broker:         broker,
		mailService:    mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailModerator, cfg.MailPort, logger),
	}

	if cfg.MailModerator != "" {
		err = app.mailService.NotifyModerator()
		if err != nil {
			logger.Error("failed to start the mail consumer", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
