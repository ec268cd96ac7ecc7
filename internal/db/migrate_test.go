package db

import (
	"testing"

	"go.uber.org/zap"

	"github.com/whisperwork/crm/internal/config"
	"github.com/whisperwork/crm/internal/models"
)

func TestConnectAndMigrateSqlite(t *testing.T) {
	t.Setenv("MIGRATIONS", "")

	db, err := ConnectAndMigrate("file:"+t.Name()+"?mode=memory&cache=shared", zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	for _, table := range []string{"clients", "client_logs", "services", "jobs", "invoices"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}

	// The partial unique index must reject two active clients with the same
	// number but admit a duplicate once the holder is archived.
	a := models.Client{Name: "Jo", PhoneNumber: "+351912345678"}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	dup := models.Client{Name: "Joana", PhoneNumber: "+351912345678"}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatalf("expected unique index violation")
	}
	if err := db.Model(&a).Update("is_archived", true).Error; err != nil {
		t.Fatalf("archive: %v", err)
	}
	again := models.Client{Name: "Joana", PhoneNumber: "+351912345678"}
	if err := db.Create(&again).Error; err != nil {
		t.Fatalf("create after archive should pass the index: %v", err)
	}
}

// The DSN loaded into config is the one the db layer consumes.
func TestConnectUsesConfiguredDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "file:"+t.Name()+"?mode=memory&cache=shared")
	t.Setenv("MIGRATIONS", "")
	cfg := config.Load()

	db, err := ConnectAndMigrate(cfg.DatabaseDSN, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !db.Migrator().HasTable("clients") {
		t.Fatalf("configured DSN was not used for migration")
	}
}

func TestConnectRequiresDSN(t *testing.T) {
	if _, err := ConnectAndMigrate("", zap.NewNop()); err == nil {
		t.Fatalf("expected error on empty DSN")
	}
}
