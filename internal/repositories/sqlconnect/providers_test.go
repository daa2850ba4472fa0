package sqlconnect

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"testing"
	"time"

	"expense_manager/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMySQLConfigDSN(t *testing.T) {
	cfg := config.DBConfig{
		User:        "expenses",
		Password:    "pa55",
		Host:        "db.internal",
		Port:        "3307",
		Name:        "expense_manager",
		DialTimeout: 3 * time.Second,
	}

	dsn := DSN(cfg)
	for _, want := range []string{"expenses:pa55@tcp(db.internal:3307)/expense_manager", "parseTime=true", "timeout=3s"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}

	mc := MySQLConfig(cfg)
	if mc.Loc != time.UTC {
		t.Errorf("loc = %v, want UTC", mc.Loc)
	}
}

func TestNewProviderModes(t *testing.T) {
	base := config.DBConfig{User: "u", Host: "localhost", Port: "3306", Name: "n"}

	base.PoolMode = config.PoolModePerCall
	p, err := NewProvider(base)
	if err != nil {
		t.Fatalf("per call: %v", err)
	}
	if _, ok := p.(*PerCallProvider); !ok {
		t.Errorf("per call mode returned %T", p)
	}

	base.PoolMode = config.PoolModePooled
	p, err = NewProvider(base)
	if err != nil {
		t.Fatalf("pooled: %v", err)
	}
	if _, ok := p.(*PooledProvider); !ok {
		t.Errorf("pooled mode returned %T", p)
	}
	p.Close()

	base.PoolMode = "sharded"
	if _, err := NewProvider(base); err == nil {
		t.Error("expected error for unknown pool mode")
	}
}

func TestPerCallProviderClosesHandleOnRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.ExpectClose()

	opened := 0
	p := &PerCallProvider{open: func(driver.Connector) *sql.DB {
		opened++
		return db
	}}

	s, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if opened != 1 {
		t.Errorf("opened %d handles, want 1", opened)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPooledProviderKeepsHandleUntilClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	p := NewPooledProvider(db)

	for i := 0; i < 3; i++ {
		s, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}

	mock.ExpectClose()
	if err := p.Close(); err != nil {
		t.Fatalf("provider close: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
