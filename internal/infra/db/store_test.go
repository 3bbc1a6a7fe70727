package db

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"flarecover/internal/config"
)

func TestNewStoreWithoutDSN(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	store, err := NewStore(config.Config{}, logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.DB != nil {
		t.Fatal("expected no gorm connection without a DSN")
	}
	if !strings.Contains(buf.String(), "without an audit store") {
		t.Fatalf("no-db notice missing from structured log: %s", buf.String())
	}
}

func TestNewStoreWithoutDSNNilLogger(t *testing.T) {
	store, err := NewStore(config.Config{}, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.DB != nil {
		t.Fatal("expected no gorm connection without a DSN")
	}
}
