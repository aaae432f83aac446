package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenpress/albumforge-backend/pkg/migrate"
)

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE orders",
		"REFERENCES client_albums(id)",
		"CHECK (total >= 0)",
		"CHECK (applied_credit >= 0)",
		"idx_orders_album_status",
		"idx_orders_payment_intent",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCatalogMigrationEnforcesDesignOrdinals(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_catalog.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no catalog migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE UNIQUE INDEX idx_designs_album_position ON designs (client_album_id, position)",
		"CHECK (base_price >= 0)",
		"CHECK (free_album_credits >= 0)",
		"CHECK (dollar_credit >= 0)",
		"CREATE UNIQUE INDEX idx_studio_users_email",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
