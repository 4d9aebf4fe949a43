// Package server wires the configured storage, mail and file backends into
// the services and runs the HTTP API until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/awsx"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore/dynamo"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore/memory"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore/pgdoc"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/blobstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/config"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/httpapi"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/mailer"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/services"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/verification"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	server   *httpapi.HTTPServer
	closers  []io.Closer
	services httpapi.Services
}

// Seams for tests.
var (
	openDynamo   = dynamo.Open
	openPostgres = pgdoc.Open
	openBlobs    = func(ctx context.Context, cfg blobstore.Config) (services.InvoiceStorage, error) {
		return blobstore.Open(ctx, cfg)
	}
)

func awsOptions(cfg *config.Config) awsx.Options {
	return awsx.Options{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}
}

// OpenStore returns the document store selected by cfg, bounded by
// cfg.StoreTimeout. The closer is nil unless the backend holds a pool.
func OpenStore(ctx context.Context, cfg *config.Config) (docstore.Store, io.Closer, error) {
	var (
		store  docstore.Store
		closer io.Closer
	)

	switch cfg.StorageBackend {
	case config.BackendDynamoDB:
		s, err := openDynamo(ctx, dynamo.Config{
			AWS:      awsOptions(cfg),
			Endpoint: cfg.DynamoEndpoint,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("dynamodb init error: %w", err)
		}
		store = s
	case config.BackendPostgres:
		s, db, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db init error: %w", err)
		}
		store, closer = s, db
	case config.BackendMemory:
		store = memory.New()
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return docstore.WithTimeout(store, cfg.StoreTimeout), closer, nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	store, closer, err := OpenStore(ctx, c)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	m := repomanager.NewDocStoreRepositoryManager(store, c.TablePrefix)

	var codes verification.Store = verification.NewMemoryStore()
	if c.VerificationBackend == config.BackendDocStore {
		codes = verification.NewDocStore(store, m.TableName(verification.Table))
	}
	dir := services.NewAccountDirectory(m.Accounts())
	wf := verification.New(codes, dir, dir, verification.WithTTL(c.VerificationTTL))

	var mail mailer.Sender = mailer.NewLogSender(logger)
	if c.SMTPUser != "" {
		mail = mailer.NewSMTPSender(mailer.Config{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUser,
			Password: c.SMTPPassword,
			From:     c.SMTPFrom,
		})
	} else {
		logger.Warn(ctx, "SMTP user not configured, emails will be logged only")
	}

	var files services.InvoiceStorage
	if c.S3Bucket != "" {
		files, err = openBlobs(ctx, blobstore.Config{
			AWS:           awsOptions(c),
			Bucket:        c.S3Bucket,
			Endpoint:      c.S3Endpoint,
			PublicBaseURL: c.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
	} else {
		logger.Warn(ctx, "S3 bucket not configured, invoice uploads are disabled")
	}

	quotes := services.NewQuoteService(m, logger)
	app.services = httpapi.Services{
		Auth:   services.NewAuthService(m, wf, mail, c, logger),
		Client: services.NewClientService(m, quotes, files, logger),
		Admin:  services.NewAdminService(m, quotes, files, logger),
		Career: services.NewCareerService(m, logger),
		Quotes: quotes,
	}

	app.server = httpapi.NewHTTPServer(httpapi.Options{
		Address:     c.HTTPAddr,
		Env:         c.Env,
		CORSOrigins: c.CORSOrigins,
		RateLimit:   c.RateLimit,
		JWTSecret:   []byte(c.SecretKey),
	}, app.services, logger)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the storage pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr, "env", app.config.Env, "storage", app.config.StorageBackend)

	err := app.server.Run(ctx)

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	for _, c := range app.closers {
		if cerr := c.Close(); cerr != nil {
			errs = append(errs, cerr)
		}
	}
	app.logger.Info(context.Background(), "app stopped")
	return errors.Join(errs...)
}
