package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"smartbudget/internal/core"
	"smartbudget/internal/ledger"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "test.db")
	repo, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestMigrationsSeedDefaultCategories(t *testing.T) {
	repo, path := newTestRepo(t)

	cats, err := repo.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != len(core.DefaultCategories) {
		t.Fatalf("got %d categories, want %d", len(cats), len(core.DefaultCategories))
	}
	if cats[0].Name != "Entertainment" {
		t.Errorf("categories should be ordered by name, first = %q", cats[0].Name)
	}

	v, dirty, err := SchemaVersion(path)
	if err != nil || dirty || v != 2 {
		t.Fatalf("SchemaVersion = %d, %v, %v", v, dirty, err)
	}

	// Running again is a no-op
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
}

func TestEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	created, err := repo.Create(ctx, core.Entry{
		Date:     core.NewDate(2025, 7, 14),
		Category: "Food",
		Amount:   core.Money{Cents: 4250},
		Type:     core.Expense,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an id")
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != created.ID || !got.Date.Equal(created.Date.Time) || got.Category != "Food" ||
		got.Amount != created.Amount || got.Type != core.Expense {
		t.Fatalf("Get = %+v, want %+v", got, created)
	}

	got.Category = "Rent"
	got.Amount = core.Money{Cents: 90000}
	if _, err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := repo.Get(ctx, created.ID)
	if again.Category != "Rent" || again.Amount.Cents != 90000 {
		t.Fatalf("update not persisted: %+v", again)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	seed := []core.Entry{
		{Date: core.NewDate(2025, 6, 1), Category: "Salary", Amount: core.Money{Cents: 300000}, Type: core.Income},
		{Date: core.NewDate(2025, 6, 10), Category: "Food", Amount: core.Money{Cents: 5000}, Type: core.Expense},
		{Date: core.NewDate(2025, 7, 2), Category: "Food", Amount: core.Money{Cents: 7000}, Type: core.Expense},
		{Date: core.NewDate(2025, 7, 2), Category: "Rent", Amount: core.Money{Cents: 90000}, Type: core.Expense},
	}
	for _, e := range seed {
		if _, err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter core.Filter
		want   []int64
	}{
		{"all newest first", core.Filter{}, []int64{4, 3, 2, 1}},
		{"category", core.Filter{Category: "Food"}, []int64{3, 2}},
		{"type", core.Filter{Type: core.Income}, []int64{1}},
		{"date range inclusive", core.Filter{From: core.NewDate(2025, 6, 10), To: core.NewDate(2025, 7, 1)}, []int64{2}},
		{"no match", core.Filter{Category: "Travel"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i, e := range got {
				if e.ID != tt.want[i] {
					t.Errorf("entry %d id = %d, want %d", i, e.ID, tt.want[i])
				}
			}
		})
	}
}

func TestAddCategoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	if _, err := repo.AddCategory(ctx, "food"); !errors.Is(err, ledger.ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	c, err := repo.AddCategory(ctx, "Travel")
	if err != nil || c.Name != "Travel" {
		t.Fatalf("AddCategory = %+v, %v", c, err)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Categories != len(core.DefaultCategories)+1 || stats.Entries != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestCreateValidates(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Create(context.Background(), core.Entry{Date: core.NewDate(2025, 1, 1), Category: "Food", Amount: core.Money{Cents: 10}, Type: "gift"})
	if !errors.Is(err, core.ErrInvalidEntryType) {
		t.Fatalf("expected ErrInvalidEntryType, got %v", err)
	}
}
