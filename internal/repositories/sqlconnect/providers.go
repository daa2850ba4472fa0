package sqlconnect

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
)

// PerCallProvider opens a fresh connection for every Acquire and tears it
// down when the session is closed. Nothing is shared between operations.
type PerCallProvider struct {
	connector driver.Connector
	open      func(driver.Connector) *sql.DB
}

func NewPerCallProvider(connector driver.Connector) *PerCallProvider {
	return &PerCallProvider{connector: connector, open: sql.OpenDB}
}

func (p *PerCallProvider) Acquire(ctx context.Context) (*Session, error) {
	db := p.open(p.connector)
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return &Session{Conn: conn, release: db.Close}, nil
}

func (p *PerCallProvider) Ping(ctx context.Context) error {
	s, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping DB: %w", err)
	}
	return nil
}

func (p *PerCallProvider) Close() error { return nil }

// PooledProvider draws sessions from a shared *sql.DB.
type PooledProvider struct {
	db *sql.DB
}

func NewPooledProvider(db *sql.DB) *PooledProvider {
	return &PooledProvider{db: db}
}

func (p *PooledProvider) Acquire(ctx context.Context) (*Session, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return &Session{Conn: conn}, nil
}

func (p *PooledProvider) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping DB: %w", err)
	}
	return nil
}

func (p *PooledProvider) Close() error {
	return p.db.Close()
}
