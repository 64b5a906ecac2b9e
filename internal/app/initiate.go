package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/config"
	"github.com/shandysiswandi/gosocial/internal/pkg/crypto"
	"github.com/shandysiswandi/gosocial/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/idempotency"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/mail"
	"github.com/shandysiswandi/gosocial/internal/pkg/rbac"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	password, err := hash.New(hash.Config{
		Driver:     a.config.GetString("hash.driver"),
		Pepper:     a.config.GetString("hash.pepper"),
		BcryptCost: a.config.GetInt("hash.bcrypt.cost"),
	})
	if err != nil {
		slog.Error("failed to init password hash", "error", err, "driver", a.config.GetString("hash.driver"))
		os.Exit(1)
	}
	a.password = password
	a.keyHash = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(a.config.GetInt64("app.node_id"))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	cipher, err := crypto.NewAESGCM(a.config.GetBinary("crypto.phone_key"))
	if err != nil {
		slog.Error("failed to init phone cipher, crypto.phone_key must be 32 bytes base64", "error", err)
		os.Exit(1)
	}
	a.cipher = cipher
}

func (a *App) initJWT() {
	keys := map[jwt.Role]jwt.Keys{
		jwt.RoleUser: {
			Access:  []byte(a.config.GetString("jwt.user.access_secret")),
			Refresh: []byte(a.config.GetString("jwt.user.refresh_secret")),
		},
		jwt.RoleAdmin: {
			Access:  []byte(a.config.GetString("jwt.admin.access_secret")),
			Refresh: []byte(a.config.GetString("jwt.admin.refresh_secret")),
		},
	}

	ring, err := jwt.NewKeyRing(jwt.Config{
		Keys:      keys,
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL: jwt.Expiry{
			Access:  a.config.GetMinute("jwt.access_ttl_minutes"),
			Refresh: a.config.GetMinute("jwt.refresh_ttl_minutes"),
		},
		Clock: a.clock,
		UUID:  a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt key ring", "error", err)
		os.Exit(1)
	}
	a.jwt = ring
}

// probe retries ping with a capped fibonacci backoff so the service can start
// alongside its dependencies.
func (a *App) probe(name string, ping func(context.Context) error) error {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxDuration(a.config.GetSecond("app.startup_timeout_seconds"), b)

	return retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := ping(pingCtx); err != nil {
			slog.WarnContext(ctx, "dependency not ready", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := a.probe("database", pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	if err := a.probe("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
}

func (a *App) initMail() {
	mail, err := mail.NewSMTP(mail.SMTPConfig{
		Host:               a.config.GetString("mail.host"),
		Port:               a.config.GetInt("mail.port"),
		Username:           a.config.GetString("mail.username"),
		Password:           a.config.GetString("mail.password"),
		From:               a.config.GetString("mail.from"),
		InsecureSkipVerify: a.config.GetBool("mail.insecure_skip_verify"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = mail
}

func (a *App) initCasbin() {
	policies := rbac.DefaultPolicies()
	extra, err := rbac.ParsePolicies(a.config.GetArray("rbac.policies"))
	if err != nil {
		slog.Error("failed to parse rbac policies", "error", err)
		os.Exit(1)
	}
	groupings, err := rbac.ParseGroupings(a.config.GetArray("rbac.groupings"))
	if err != nil {
		slog.Error("failed to parse rbac groupings", "error", err)
		os.Exit(1)
	}

	e, err := rbac.New(append(policies, extra...), groupings)
	if err != nil {
		slog.Error("failed to init casbin", "error", err)
		os.Exit(1)
	}

	a.casbin = e
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				return a.storage.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
