package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommissionMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_commission_records.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no commission migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS commission_records",
		"FOREIGN KEY (order_item_id) REFERENCES order_line_items(id)",
		"CHECK (rate_bps >= 0 AND rate_bps <= 10000)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_commission_records_order_item",
		"DROP TABLE IF EXISTS commission_records;",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
