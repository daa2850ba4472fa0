package sqlconnect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"expense_manager/internal/config"

	"github.com/go-sql-driver/mysql"
)

// Provider hands out database sessions. Callers must Close every
// session they acquire.
type Provider interface {
	Acquire(ctx context.Context) (*Session, error)
	Ping(ctx context.Context) error
	Close() error
}

// Session is a single connection held for the duration of one operation.
type Session struct {
	*sql.Conn
	release func() error
}

func (s *Session) Close() error {
	err := s.Conn.Close()
	if s.release != nil {
		err = errors.Join(err, s.release())
	}
	return err
}

// MySQLConfig translates application settings into a driver config.
func MySQLConfig(cfg config.DBConfig) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = cfg.DialTimeout
	return mc
}

func DSN(cfg config.DBConfig) string {
	return MySQLConfig(cfg).FormatDSN()
}

// NewProvider returns the provider selected by cfg.PoolMode.
func NewProvider(cfg config.DBConfig) (Provider, error) {
	switch cfg.PoolMode {
	case config.PoolModePooled:
		db, err := OpenDB(cfg)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		return NewPooledProvider(db), nil
	case config.PoolModePerCall, "":
		connector, err := mysql.NewConnector(MySQLConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to build DB connector: %w", err)
		}
		return NewPerCallProvider(connector), nil
	default:
		return nil, fmt.Errorf("unknown pool mode %q", cfg.PoolMode)
	}
}

// OpenDB opens a long-lived handle, used by the pooled provider and migrations.
func OpenDB(cfg config.DBConfig) (*sql.DB, error) {
	connector, err := mysql.NewConnector(MySQLConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}
	return sql.OpenDB(connector), nil
}
