// Package bootstrap wires configuration into the services shared by the
// API server, the worker and the admin CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobpilot/internal/adapter/repo"
	"jobpilot/internal/autoapply"
	"jobpilot/internal/cvparser"
	"jobpilot/internal/domain"
	"jobpilot/internal/events"
	"jobpilot/internal/infra"
	"jobpilot/internal/infra/credentials"
	"jobpilot/internal/infra/geoip"
	"jobpilot/internal/jobsearch"
	"jobpilot/internal/mailer"
	"jobpilot/internal/middleware"
	"jobpilot/internal/notify"
	"jobpilot/internal/storage"
)

// Services holds every long-lived dependency of a binary.
type Services struct {
	Config *infra.Config
	Logger infra.Logger

	Pool        *pgxpool.Pool
	SQL         *infra.SQLRunner
	Credentials *credentials.Store

	Users        domain.UserRepository
	CVs          domain.CVRepository
	Preferences  domain.PreferencesRepository
	Applications domain.ApplicationRepository

	Files     storage.Store
	Parser    *cvparser.Parser
	Search    jobsearch.Provider
	Mailer    mailer.Sender
	Events    events.Publisher
	Reporter  notify.Reporter
	Geo       *geoip.Resolver
	AutoApply *autoapply.Orchestrator
}

// Build connects to the database and constructs the collaborators selected
// by cfg. Optional collaborators that fail to start are replaced by no-ops.
func Build(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*Services, error) {
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &Services{Config: cfg, Logger: logger, Pool: pool}
	s.SQL = infra.NewSQLRunner(pool, logger)
	s.Credentials = credentials.NewStore(s.SQL)

	s.Users = repo.NewUserRepository(s.SQL)
	s.CVs = repo.NewCVRepository(s.SQL)
	s.Preferences = repo.NewPreferencesRepository(s.SQL)
	s.Applications = repo.NewApplicationRepository(s.SQL)

	if s.Files, err = storage.New(ctx, cfg); err != nil {
		s.Close()
		return nil, fmt.Errorf("configure storage: %w", err)
	}
	s.Parser = cvparser.New(logger)

	searchKey := s.token(ctx, credentials.ProviderJobSearch, cfg.JobSearchAPIKey)
	s.Search = jobsearch.New(cfg, searchKey, logger)
	s.Mailer = mailer.New(cfg, s.token(ctx, credentials.ProviderSMTP, cfg.SMTPPassword), logger)

	if s.Events, err = events.New(cfg, logger); err != nil {
		logger.Warn().Err(err).Msg("amqp unavailable; application events disabled")
		s.Events = events.Nop{}
	}
	if s.Reporter, err = notify.New(cfg, s.token(ctx, credentials.ProviderTelegram, cfg.TelegramToken), logger); err != nil {
		logger.Warn().Err(err).Msg("telegram unavailable; batch reports disabled")
		s.Reporter = notify.Nop{}
	}
	if s.Geo, err = geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip database not loaded")
		s.Geo = nil
	}

	s.AutoApply = autoapply.New(autoapply.Deps{
		Users:        s.Users,
		CVs:          s.CVs,
		Preferences:  s.Preferences,
		Applications: s.Applications,
		Search:       s.Search,
		Mailer:       s.Mailer,
		Files:        s.Files,
		Events:       s.Events,
		Reporter:     s.Reporter,
		Logger:       logger,
		DefaultCap:   cfg.AutoApplyDefault,
		MaxCap:       cfg.AutoApplyMax,
	})
	return s, nil
}

func (s *Services) token(ctx context.Context, provider, configured string) string {
	v, err := s.Credentials.Resolve(ctx, provider, configured)
	if err != nil {
		s.Logger.Warn().Err(err).Str("provider", provider).Msg("stored token lookup failed")
		return configured
	}
	return v
}

// CountryLookup adapts the GeoIP resolver for the geo middleware. It returns
// nil when no database is loaded.
func (s *Services) CountryLookup() middleware.CountryLookup {
	if s.Geo == nil {
		return nil
	}
	return func(ip string) (string, error) {
		c, err := s.Geo.Country(ip)
		return c.Code, err
	}
}

// Ping reports database reachability.
func (s *Services) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return errors.New("database pool not initialised")
	}
	return s.Pool.Ping(ctx)
}

// Close releases connections in reverse order of construction.
func (s *Services) Close() {
	if s.Events != nil {
		if err := s.Events.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("close event publisher")
		}
	}
	if err := s.Geo.Close(); err != nil {
		s.Logger.Warn().Err(err).Msg("close geoip database")
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}
