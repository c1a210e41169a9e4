package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestReferenceMigrationSeedsOtherCategory(t *testing.T) {
	content := readMigration(t, "create_reference_tables")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS profiles",
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TABLE IF NOT EXISTS locations",
		"('Other', 'Miscellaneous items', 'help-circle', '#6B7280')",
		"('Gym', 'Sports Complex', '1', 'Main gymnasium')",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestItemMigrationStatusVocabularies(t *testing.T) {
	content := readMigration(t, "create_item_tables")
	for _, sub := range []string{
		"CHECK (status IN ('ACTIVE', 'FOUND', 'EXPIRED', 'ARCHIVED'))",
		"CHECK (status IN ('AVAILABLE', 'CLAIMED', 'HANDED_OVER', 'ARCHIVED'))",
		"CHECK (urgency IN ('LOW', 'MEDIUM', 'HIGH', 'CRITICAL'))",
		"reward_amount DECIMAL(10,2)",
		"images TEXT[] NOT NULL DEFAULT '{}'",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestClaimMigrationEnforcesSinglePendingClaim(t *testing.T) {
	content := readMigration(t, "create_claim_tables")
	if !strings.Contains(content, "ON claim_requests (claimer_id, item_id) WHERE status = 'pending'") {
		t.Fatalf("expected partial unique index on pending claims")
	}
	if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS admin_actions") {
		t.Fatalf("expected admin_actions table")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := createAt(dir, "  Add Item Tags!! ", now)
	if err != nil {
		t.Fatalf("createAt: %v", err)
	}
	if filepath.Base(path) != "20250301120000_add_item_tags.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if _, err := createAt(dir, "add item tags", now); err == nil {
		t.Fatalf("expected duplicate migration error")
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	if _, err := createAt(dir, "!!!", now); err == nil {
		t.Fatalf("expected error for empty sanitized name")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected invalid filename error")
	}
}
