package main

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/emailbuilder/config"
	"github.com/Notifuse/emailbuilder/internal/app"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	pkgmocks "github.com/Notifuse/emailbuilder/pkg/mocks"
)

func createTestConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Security: config.SecurityConfig{JWTSecret: []byte("main-test-secret")},
		Mail:     config.MailConfig{Provider: config.MailProviderConsole},
		Editor: config.EditorConfig{
			SessionTTL:      time.Minute,
			RenderCacheTTL:  time.Minute,
			SendConcurrency: 1,
		},
		LogLevel: "debug",
		Version:  config.VERSION,
	}
}

// signalRecorder replaces signal.Notify and keeps the registered channels
type signalRecorder struct {
	mu       sync.Mutex
	channels []chan<- os.Signal
}

func (r *signalRecorder) notify(c chan<- os.Signal, _ ...os.Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels = append(r.channels, c)
}

func (r *signalRecorder) send(sig os.Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[0] <- sig
}

func TestRunServer_GracefulShutdown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	ctrl := gomock.NewController(t)
	mockMailer := pkgmocks.NewMockMailer(ctrl)

	started := make(chan app.AppInterface, 1)
	originalNewApp, originalNotify := newApp, signalNotify
	defer func() { newApp, signalNotify = originalNewApp, originalNotify }()

	newApp = func(cfg *config.Config, opts ...app.AppOption) app.AppInterface {
		opts = append(opts, app.WithMockDB(db), app.WithMockMailer(mockMailer))
		a := app.NewApp(cfg, opts...)
		started <- a
		return a
	}
	signals := &signalRecorder{}
	signalNotify = signals.notify

	done := make(chan error, 1)
	go func() { done <- runServer(createTestConfig(), logger.NewMockLogger(t)) }()

	a := <-started
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, a.WaitForServerStart(ctx))

	signals.send(os.Interrupt)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("runServer did not return after the shutdown signal")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunServer_InitializeError(t *testing.T) {
	originalNewApp := newApp
	defer func() { newApp = originalNewApp }()

	cfg := createTestConfig()
	cfg.Mail.Provider = config.MailProviderSES

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	newApp = func(cfg *config.Config, opts ...app.AppOption) app.AppInterface {
		return app.NewApp(cfg, append(opts, app.WithMockDB(db))...)
	}

	err = runServer(cfg, logger.NewMockLogger(t))
	assert.ErrorContains(t, err, "SES")
}
