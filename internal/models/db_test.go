package models

import (
	"fmt"
	"testing"
	"time"
)

func TestSqliteDSN(t *testing.T) {
	cases := map[string]string{
		"./db/pdfrg.db":                    "./db/pdfrg.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		"file:x?mode=memory":               "file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		"app.db?_pragma=journal_mode(WAL)": "app.db?_pragma=journal_mode(WAL)",
	}
	for in, want := range cases {
		if got := sqliteDSN(in); got != want {
			t.Fatalf("sqliteDSN(%q) want %q got %q", in, want, got)
		}
	}
}

func TestOpenDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := openDialector("mysql", "dsn"); err == nil {
		t.Fatalf("unknown driver should fail")
	}
	if d, err := openDialector("", "file:x"); err != nil || d.Name() != "sqlite" {
		t.Fatalf("empty driver should default to sqlite, err=%v", err)
	}
}

func TestInitDBAndMigrate(t *testing.T) {
	saved := DB
	t.Cleanup(func() {
		if DB != nil && DB != saved {
			if sqlDB, err := DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		DB = saved
	})

	dsn := fmt.Sprintf("file:models_init_%d?mode=memory&cache=shared", time.Now().UnixNano())
	if err := InitDB("sqlite", dsn, "debug", DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}); err != nil {
		t.Fatalf("init db failed: %v", err)
	}
	if err := AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	for _, model := range AllModels() {
		if !DB.Migrator().HasTable(model) {
			t.Fatalf("table for %T should exist", model)
		}
	}
}
