package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"minitwit/internal/config"
	"minitwit/internal/logging"
	"minitwit/internal/metrics"
	"minitwit/internal/password"
	"minitwit/internal/service"
	"minitwit/internal/store"
)

// server carries the dependencies shared by all handlers.
type server struct {
	db       *sqlx.DB
	accounts *service.AccountService
	messages *service.MessageService
	log      logrus.FieldLogger
}

func newServer(conn *sqlx.DB, hasher password.Hasher, log logrus.FieldLogger) *server {
	accountStore := store.NewAccountStore(conn, log)
	messageStore := store.NewMessageStore(conn, log)
	return &server{
		db:       conn,
		accounts: service.NewAccountService(accountStore, hasher, log),
		messages: service.NewMessageService(messageStore, accountStore, log),
		log:      log,
	}
}

func setupRouter(s *server) *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware, metrics.Middleware)

	r.HandleFunc("/register", s.registerHandler).Methods(http.MethodPost)
	r.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/messages", s.addMessageHandler).Methods(http.MethodPost)
	r.HandleFunc("/messages", s.allMessagesHandler).Methods(http.MethodGet)
	r.HandleFunc("/messages/{message_id:[0-9]+}", s.messageHandler).Methods(http.MethodGet)
	r.HandleFunc("/messages/{message_id:[0-9]+}", s.deleteMessageHandler).Methods(http.MethodDelete)
	r.HandleFunc("/messages/{message_id:[0-9]+}", s.updateMessageHandler).Methods(http.MethodPatch)
	r.HandleFunc("/accounts/{account_id:[0-9]+}/messages", s.accountMessagesHandler).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	hasher, err := password.New(cfg.PasswordHashing)
	if err != nil {
		return err
	}

	conn, err := openDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      setupRouter(newServer(conn, hasher, log)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "driver": cfg.DBDriver}).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
