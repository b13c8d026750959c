package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/aandrewsv/health-claims-verifier/internal/cache"
	"github.com/aandrewsv/health-claims-verifier/internal/leaderboard"
	"github.com/aandrewsv/health-claims-verifier/internal/model"
	"github.com/aandrewsv/health-claims-verifier/internal/pipeline"
	"github.com/aandrewsv/health-claims-verifier/internal/research"
	"github.com/aandrewsv/health-claims-verifier/internal/store"
	"github.com/aandrewsv/health-claims-verifier/internal/verify"
)

// loadConfig builds the effective configuration: defaults, overlaid by
// the config file and HCV_* environment, then the well-known standalone
// environment variables for secrets and database coordinates.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}

	if key := os.Getenv("RESEARCH_API_KEY"); key != "" {
		cfg.Research.APIKey = key
	} else if key := os.Getenv("PERPLEXITY_API_KEY"); key != "" {
		cfg.Research.APIKey = key
	}

	for _, override := range []struct {
		env string
		dst *string
	}{
		{"DB_HOST", &cfg.Database.Host},
		{"DB_PORT", &cfg.Database.Port},
		{"DB_USER", &cfg.Database.User},
		{"DB_PASSWORD", &cfg.Database.Password},
		{"DB_NAME", &cfg.Database.DBName},
		{"DB_SSLMODE", &cfg.Database.SSLMode},
	} {
		if v := os.Getenv(override.env); v != "" {
			*override.dst = v
		}
	}

	return cfg
}

// app bundles the wired services every command operates on
type app struct {
	cfg         *model.Config
	db          *gorm.DB
	client      research.Client
	subjects    *store.SubjectRepo
	claims      *store.ClaimRepo
	verifier    *verify.Verifier
	pipeline    *pipeline.Pipeline
	leaderboard *leaderboard.Service
}

// buildApp connects the database, runs migrations, and wires the
// services
func buildApp(cfg *model.Config) (*app, error) {
	db, err := store.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.AutoMigrate(db); err != nil {
		return nil, err
	}

	client, err := research.NewClient(cfg.Research)
	if err != nil {
		return nil, err
	}

	subjects := store.NewSubjectRepo(db)
	claims := store.NewClaimRepo(db)

	var boardCache cache.Cache
	if cfg.Cache.Enabled {
		boardCache = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}

	return &app{
		cfg:         cfg,
		db:          db,
		client:      client,
		subjects:    subjects,
		claims:      claims,
		verifier:    verify.NewVerifier(client, subjects),
		pipeline:    pipeline.NewPipeline(client, subjects, claims, cfg.Pipeline),
		leaderboard: leaderboard.NewService(subjects, claims, boardCache, cfg.Cache.TTL),
	}, nil
}
