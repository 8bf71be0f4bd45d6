package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"

	"github.com/Notifuse/emailbuilder/config"
	"github.com/Notifuse/emailbuilder/internal/database"
	"github.com/Notifuse/emailbuilder/internal/domain"
	httpHandler "github.com/Notifuse/emailbuilder/internal/http"
	"github.com/Notifuse/emailbuilder/internal/http/middleware"
	"github.com/Notifuse/emailbuilder/internal/repository"
	"github.com/Notifuse/emailbuilder/internal/service"
	"github.com/Notifuse/emailbuilder/pkg/cache"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/mailer"
	"github.com/Notifuse/emailbuilder/pkg/render"
	"github.com/Notifuse/emailbuilder/pkg/tracing"
)

const renderCacheCleanupInterval = time.Minute

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetMailer() mailer.Mailer
	GetTemplateRepository() domain.TemplateRepository

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitTracing() error
	InitDB() error
	InitMailer() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB
	mailer mailer.Mailer

	templateRepo domain.TemplateRepository

	renderCache     *cache.InMemoryCache[string]
	templateService *service.TemplateService
	editorService   *service.EditorService
	emailService    *service.EmailService

	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration

	// stopDBStats ends the ocsql connection pool stats recorder
	stopDBStats func()
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMockMailer configures the app to use a mock mailer
func WithMockMailer(m mailer.Mailer) AppOption {
	return func(a *App) {
		a.mailer = m
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing and the editor views
func (a *App) InitTracing() error {
	if err := tracing.InitTracing(&a.config.Tracing, a.logger); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := tracing.RegisterViews(); err != nil {
		return fmt.Errorf("failed to register views: %w", err)
	}
	return nil
}

// InitDB initializes the database connection
func (a *App) InitDB() error {
	// Skip if the database was injected
	if a.db != nil {
		a.recordDBStats()
		return nil
	}

	dbConfig := &a.config.Database
	a.logger.WithFields(map[string]interface{}{
		"host":    dbConfig.Host,
		"port":    dbConfig.Port,
		"user":    dbConfig.User,
		"dbname":  dbConfig.DBName,
		"sslmode": dbConfig.SSLMode,
	}).Info("Connecting to database")

	if err := database.EnsureDatabaseExists(dbConfig); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	// If tracing is enabled, wrap the postgres driver
	driverName := "postgres"
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	db, err := sql.Open(driverName, database.GetDSN(dbConfig))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	database.ConfigurePool(db, dbConfig)

	a.db = db
	a.recordDBStats()
	return nil
}

// recordDBStats exports connection pool stats while tracing is enabled
func (a *App) recordDBStats() {
	if !a.config.Tracing.Enabled || a.stopDBStats != nil {
		return
	}
	a.stopDBStats = ocsql.RecordStats(a.db, 5*time.Second)
}

// InitMailer picks the mail provider from the configuration
func (a *App) InitMailer() error {
	// Skip if mailer already set (e.g., by mock)
	if a.mailer != nil {
		return nil
	}

	mailConfig := a.config.Mail
	switch mailConfig.Provider {
	case config.MailProviderSMTP:
		a.mailer = mailer.NewSMTPMailer(&mailer.Config{
			SMTPHost:     mailConfig.SMTP.Host,
			SMTPPort:     mailConfig.SMTP.Port,
			SMTPUsername: mailConfig.SMTP.Username,
			SMTPPassword: mailConfig.SMTP.Password,
			TLSPolicy:    mailConfig.SMTP.TLSPolicy,
		})
	case config.MailProviderSES:
		sesMailer, err := mailer.NewSESMailer(mailer.SESConfig{
			Region:           mailConfig.SES.Region,
			AccessKey:        mailConfig.SES.AccessKey,
			SecretKey:        mailConfig.SES.SecretKey,
			ConfigurationSet: mailConfig.SES.ConfigurationSet,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize SES mailer: %w", err)
		}
		a.mailer = sesMailer
	default:
		a.mailer = mailer.NewConsoleMailer(a.logger)
	}

	a.logger.WithField("provider", mailConfig.Provider).Info("Mailer initialized")
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.templateRepo = repository.NewTemplateRepository(a.db)
	return nil
}

// InitServices initializes all application services
func (a *App) InitServices() error {
	if a.templateRepo == nil {
		return fmt.Errorf("repositories must be initialized before services")
	}
	if a.mailer == nil {
		return fmt.Errorf("mailer must be initialized before services")
	}

	editorConfig := a.config.Editor
	a.renderCache = cache.NewInMemoryCache[string](renderCacheCleanupInterval)
	renderer := render.NewRenderer(a.renderCache, editorConfig.RenderCacheTTL)

	a.templateService = service.NewTemplateService(a.templateRepo, a.logger)
	a.editorService = service.NewEditorService(a.templateService, renderer, service.EditorServiceConfig{
		SessionTTL:     editorConfig.SessionTTL,
		OpenTrackerURL: editorConfig.OpenTrackerURL,
	}, a.logger)
	a.emailService = service.NewEmailService(a.templateService, a.mailer, renderer, service.EmailServiceConfig{
		FromEmail:      a.config.Mail.FromEmail,
		FromName:       a.config.Mail.FromName,
		OpenTrackerURL: editorConfig.OpenTrackerURL,
		UnsubscribeURL: editorConfig.UnsubscribeURL,
		Concurrency:    editorConfig.SendConcurrency,
	}, a.logger)

	return nil
}

// InitHandlers registers the HTTP routes
func (a *App) InitHandlers() error {
	// Create a new ServeMux to avoid route conflicts on restart
	a.mux = http.NewServeMux()

	jwtSecret := a.config.Security.JWTSecret

	var db httpHandler.Pinger
	if a.db != nil {
		db = a.db
	}
	rootHandler := httpHandler.NewRootHandler(a.logger, a.config.APIEndpoint, a.config.Version, db)
	templateHandler := httpHandler.NewTemplateHandler(a.templateService, jwtSecret, a.logger)
	editorHandler := httpHandler.NewEditorHandler(a.editorService, jwtSecret, a.logger)
	emailHandler := httpHandler.NewEmailHandler(a.emailService, jwtSecret, a.logger)

	rootHandler.RegisterRoutes(a.mux)
	templateHandler.RegisterRoutes(a.mux)
	editorHandler.RegisterRoutes(a.mux)
	emailHandler.RegisterRoutes(a.mux)

	return nil
}

// Handler returns the mux wrapped in the server middlewares
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	// Apply graceful shutdown middleware first (outermost)
	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
	}

	return middleware.CORSMiddleware(handler)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).
		WithField("api_endpoint", a.config.APIEndpoint).
		Info("Server starting")

	a.serverMu.Lock()
	if a.serverStarted != nil {
		select {
		case <-a.serverStarted:
		default:
			close(a.serverStarted)
		}
	}
	a.serverStarted = make(chan struct{})

	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverStarted := a.serverStarted
	server := a.server
	a.serverMu.Unlock()

	// Signal that the server has been created and is about to start
	close(serverStarted)

	if a.config.Server.SSL.Enabled {
		a.logger.WithField("cert_file", a.config.Server.SSL.CertFile).Info("SSL enabled")
		return server.ListenAndServeTLS(a.config.Server.SSL.CertFile, a.config.Server.SSL.KeyFile)
	}

	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	// Signal shutdown to all components
	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources()
	}

	a.logger.WithField("active_requests", a.getActiveRequestCount()).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)

	requestsDone := make(chan struct{})
	go func() {
		a.requestWg.Wait()
		close(requestsDone)
	}()

	select {
	case <-requestsDone:
	case <-shutdownCtx.Done():
		a.logger.WithField("active_requests", a.getActiveRequestCount()).Warn("Shutdown timeout reached, forcing shutdown")
		if shutdownErr == nil {
			shutdownErr = fmt.Errorf("shutdown timeout exceeded")
		}
	}

	if cleanupErr := a.cleanupResources(); cleanupErr != nil && shutdownErr == nil {
		shutdownErr = cleanupErr
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}
	return shutdownErr
}

// cleanupResources stops the caches and closes the database
func (a *App) cleanupResources() error {
	if a.editorService != nil {
		a.editorService.Close()
	}
	if a.renderCache != nil {
		a.renderCache.Stop()
	}

	if a.stopDBStats != nil {
		a.stopDBStats()
		a.stopDBStats = nil
	}

	if a.db != nil {
		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			return err
		}
	}
	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created.
// Returns false if the context expired first.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting email builder")

	steps := []func() error{
		a.InitTracing,
		a.InitDB,
		a.InitMailer,
		a.InitRepositories,
		a.InitServices,
		a.InitHandlers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetLogger() logger.Logger {
	return a.logger
}

func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

func (a *App) GetDB() *sql.DB {
	return a.db
}

func (a *App) GetMailer() mailer.Mailer {
	return a.mailer
}

func (a *App) GetTemplateRepository() domain.TemplateRepository {
	return a.templateRepo
}

func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the number of requests in flight
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

// GetShutdownContext returns the context cancelled when shutdown starts
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware tracks active requests and refuses new ones
// once shutdown started
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			httpHandler.WriteJSONError(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		next.ServeHTTP(w, r)
	})
}

// Ensure App implements AppInterface
var _ AppInterface = (*App)(nil)
