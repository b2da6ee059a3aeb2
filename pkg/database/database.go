package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	// drivers
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type DB struct {
	Driver       string `yaml:"driver" envconfig:"DB_DRIVER" default:"sqlite3"`
	DSN          string `yaml:"dsn" envconfig:"DB_DSN" default:"file:library.db?_foreign_keys=1&_txlock=immediate&_busy_timeout=5000"`
	MaxOpenConns int    `yaml:"maxOpenConns" envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
}

// sqlDriverName maps the configured driver onto the database/sql driver registration.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "pgx", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", errors.Errorf("unsupported db driver %q", driver)
	}
}

// MigrationDir is the directory inside the migrations FS holding the dialect's files.
func MigrationDir(driver string) string {
	if driver == DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}

// NewDB opens the database, checks the connection and applies pending migrations.
func NewDB(ctx context.Context, cfg *DB, migrations fs.FS, log *zap.Logger) (*sqlx.DB, error) {
	name, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(name, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "sqlx.Open")
	}
	if cfg.Driver == DriverSQLite {
		// one writer; concurrent borrows queue on the pool instead of failing with SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "db.Ping")
	}

	if migrations != nil {
		if err = Migrate(db.DB, cfg.Driver, migrations, log, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// Migrate runs a goose command ("up", "down", "status", "version", ...) against db.
// goose output goes to log; a nil log discards it.
func Migrate(db *sql.DB, driver string, migrations fs.FS, log *zap.Logger, command string, args ...string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if log == nil {
		log = zap.NewNop()
	}
	goose.SetLogger(gooseLogger{log: log.Named("goose").Sugar()})
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(driver); err != nil {
		return errors.Wrap(err, "goose.SetDialect")
	}
	if err := goose.Run(command, db, MigrationDir(driver), args...); err != nil {
		return errors.Wrapf(err, "goose %s", command)
	}
	return nil
}

type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
