package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"plugsim/backend/libs/db"
	libredis "plugsim/backend/libs/redis"
	"plugsim/backend/libs/random"
	"plugsim/backend/libs/shelly"
	"plugsim/backend/libs/token"
	"plugsim/backend/services/generator/internal/calendar"
	"plugsim/backend/services/generator/internal/clients"
	"plugsim/backend/services/generator/internal/config"
	"plugsim/backend/services/generator/internal/dataset"
	redisstore "plugsim/backend/services/generator/internal/redis"
	"plugsim/backend/services/generator/internal/repository"
	"plugsim/backend/services/generator/internal/service"
	"plugsim/backend/services/generator/internal/storage"
	"plugsim/backend/services/generator/internal/telemetry"
)

const tokenSubject = "generator"

// App wires generator dependencies.
type App struct {
	cfg       *config.Config
	generator *service.Generator
	files     *storage.FileStore
	datasets  *repository.DatasetRepository
	runs      *redisstore.RunStore
	sqlDB     *sql.DB
	redis     *redis.Client
	logger    *zap.Logger
}

// New constructs the application graph. Export sinks that cannot be reached are disabled with a
// warning; the CSV file stays the artifact of record.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	rnd := random.New(cfg.Random.Seed)

	source, err := newSource(ctx, cfg, rnd, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		generator: service.NewGenerator(source, rnd, logger.Named("generator")),
		files:     storage.NewFileStore(cfg.Output.Folder, logger.Named("storage"), storage.WithGzip(cfg.Output.Gzip)),
		logger:    logger,
	}

	if cfg.Database.DSN != "" {
		conn, driver, err := db.Open(cfg.Database.DSN)
		if err != nil {
			logger.Warn("database export disabled", zap.Error(err))
		} else {
			repo := repository.NewDatasetRepository(conn, driver)
			if err := repo.EnsureSchema(ctx); err != nil {
				conn.Close()
				logger.Warn("database export disabled", zap.Error(err))
			} else {
				a.sqlDB = conn
				a.datasets = repo
			}
		}
	}

	if cfg.Redis.Addr != "" {
		client, err := libredis.NewClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn("run records disabled", zap.Error(err))
		} else {
			a.redis = client
			a.runs = redisstore.NewRunStore(client, cfg.RedisTTL())
		}
	}

	logger.Info("generator configured",
		zap.String("source", cfg.SourceMode()),
		zap.Bool("seeded", cfg.Random.Seed != 0),
		zap.Bool("database_export", a.datasets != nil),
		zap.Bool("run_records", a.runs != nil),
	)
	return a, nil
}

func newSource(ctx context.Context, cfg *config.Config, rnd random.Source, logger *zap.Logger) (telemetry.Source, error) {
	if cfg.SourceMode() == config.SourceInProcess {
		return telemetry.NewInProcess(shelly.NewDevice(rnd, logger.Named("device"))), nil
	}

	var auth clients.Authorizer
	switch {
	case cfg.Source.JWTSecret != "":
		auth = clients.BearerAuth{
			Issuer:  token.NewService(cfg.Source.JWTSecret, time.Minute),
			Subject: tokenSubject,
			Scope:   token.ScopeDevice,
		}
	case cfg.Source.Username != "":
		auth = clients.BasicAuth{Username: cfg.Source.Username, Password: cfg.Source.Password}
	}

	plug := clients.NewPlugClient(cfg.Source.BaseURL, clients.NewDefaultHTTPClient(cfg.Timeout()), auth)
	settings, err := plug.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("plug at %s: %w", cfg.Source.BaseURL, err)
	}
	logger.Info("plug reachable",
		zap.String("base_url", cfg.Source.BaseURL),
		zap.Float64("max_power", settings.MaxPower),
		zap.Int("relays", len(settings.Relays)),
	)
	return telemetry.NewHTTP(plug), nil
}

// Run generates one dataset, saves it and exports it to the enabled sinks.
func (a *App) Run(ctx context.Context) (redisstore.RunRecord, error) {
	firstDay, err := a.cfg.FirstDay()
	if err != nil {
		return redisstore.RunRecord{}, err
	}

	rec := redisstore.RunRecord{
		RunID:     uuid.NewString(),
		FirstDay:  firstDay.Format(calendar.DateLayout),
		Days:      a.cfg.Plan.Days,
		StartedAt: time.Now().UTC(),
	}
	logger := a.logger.With(zap.String("run_id", rec.RunID))

	ds, err := a.generator.Run(ctx, service.Plan{
		FirstDay:        firstDay,
		Days:            a.cfg.Plan.Days,
		Hours:           a.cfg.Plan.Hours,
		IntervalMinutes: a.cfg.Plan.IntervalMinutes,
		MeterID:         a.cfg.Plan.MeterID,
		WeightScale:     a.cfg.Plan.WeightScale,
		DatasetName:     a.cfg.Output.DatasetName,
	})
	if err != nil {
		return rec, err
	}

	rows, path, err := a.files.Save(ds)
	if err != nil {
		return rec, err
	}

	rec.Dataset = ds.Name()
	rec.Rows = rows
	rec.Path = path
	rec.Summary = ds.Summary()
	rec.FinishedAt = time.Now().UTC()

	for _, s := range rec.Summary {
		logger.Info("column summary",
			zap.String("column", s.Column),
			zap.Int("count", s.Count),
			zap.Float64("mean", s.Mean),
			zap.Float64("std", s.Std),
			zap.Float64("min", s.Min),
			zap.Float64("median", s.Median),
			zap.Float64("max", s.Max),
		)
	}

	if a.datasets != nil && rows > 0 {
		a.exportToDatabase(ctx, logger, rec.RunID, ds)
	}
	if a.runs != nil {
		a.logPreviousRun(ctx, logger, rec.Dataset)
		if err := a.runs.Save(ctx, rec); err != nil {
			logger.Warn("run record not stored", zap.Error(err))
		}
	}

	logger.Info("run finished",
		zap.Int("rows", rows),
		zap.String("path", path),
		zap.Duration("elapsed", rec.FinishedAt.Sub(rec.StartedAt)),
	)
	return rec, nil
}

func (a *App) exportToDatabase(ctx context.Context, logger *zap.Logger, runID string, ds *dataset.Dataset) {
	if err := a.datasets.InsertDataset(ctx, runID, ds); err != nil {
		logger.Warn("database export failed", zap.Error(err))
		return
	}
	stored, err := a.datasets.CountRows(ctx, runID)
	if err != nil {
		logger.Warn("database export not verified", zap.Error(err))
		return
	}
	if stored != ds.Len() {
		logger.Warn("database export incomplete", zap.Int("rows", ds.Len()), zap.Int("stored", stored))
		return
	}
	logger.Info("dataset exported to database", zap.Int("rows", stored))
}

func (a *App) logPreviousRun(ctx context.Context, logger *zap.Logger, name string) {
	prev, err := a.runs.Last(ctx, name)
	if errors.Is(err, redisstore.ErrRunNotFound) {
		return
	}
	if err != nil {
		logger.Warn("previous run lookup failed", zap.Error(err))
		return
	}
	logger.Info("previous run",
		zap.String("previous_run_id", prev.RunID),
		zap.Int("rows", prev.Rows),
		zap.String("path", prev.Path),
		zap.Time("finished_at", prev.FinishedAt),
	)
}

// Close releases sink connections.
func (a *App) Close() {
	if a.sqlDB != nil {
		a.sqlDB.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
