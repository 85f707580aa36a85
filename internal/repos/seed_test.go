package repos_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"expyra/internal/repos"
)

var seedTables = []string{
	"suppliers", "products", "batches", "inventory", "alerts", "sales_predictions",
}

func rowCounts(t *testing.T, db *sqlx.DB) map[string]int {
	t.Helper()
	out := map[string]int{}
	for _, table := range seedTables {
		var n int
		if err := db.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		out[table] = n
	}
	return out
}

func TestSeedIsIdempotent(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := repos.Seed(db, now); err != nil {
		t.Fatal(err)
	}
	first := rowCounts(t, db)
	for table, n := range first {
		if n == 0 {
			t.Fatalf("seed left %s empty", table)
		}
	}

	if err := repos.Seed(db, now); err != nil {
		t.Fatal(err)
	}
	second := rowCounts(t, db)
	for table, n := range first {
		if second[table] != n {
			t.Fatalf("%s: want %d rows after reseed, got %d", table, n, second[table])
		}
	}
}

func TestClearEmptiesEveryTable(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.Seed(db, time.Now().UTC()); err != nil {
		t.Fatal(err)
	}
	if err := repos.Clear(db); err != nil {
		t.Fatal(err)
	}
	for table, n := range rowCounts(t, db) {
		if n != 0 {
			t.Fatalf("%s still holds %d rows after clear", table, n)
		}
	}

	// clearing an already-empty store must not error either
	if err := repos.Clear(db); err != nil {
		t.Fatal(err)
	}
}

func TestSeedBuildsClassifiableBatches(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.Seed(db, time.Now().UTC()); err != nil {
		t.Fatal(err)
	}

	batches, err := repos.NewBatchRepo(db).ListAllWithProduct()
	if err != nil {
		t.Fatal(err)
	}
	if len(batches) == 0 {
		t.Fatal("seed created no batches")
	}
	for _, b := range batches {
		if _, err := b.ExpiryTime(); err != nil {
			t.Fatalf("batch %s: bad expiry date %q", b.ID, b.ExpiryDate)
		}
		if b.CurrentQuantity > b.InitialQuantity {
			t.Fatalf("batch %s: current %d exceeds initial %d", b.ID, b.CurrentQuantity, b.InitialQuantity)
		}
	}
}
