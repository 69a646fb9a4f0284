package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskflow/internal/models"
)

func setupMemoryStore(t *testing.T, opts ...MemoryOption) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(opts...)
	fixtures, err := LoadFixtures()
	if err != nil {
		t.Fatalf("LoadFixtures failed: %v", err)
	}
	if err := store.Seed(context.Background(), fixtures); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return store
}

func TestMemoryCreateTaskGoesFirst(t *testing.T) {
	store := setupMemoryStore(t)
	ctx := context.Background()

	before, _ := store.ListTasks(ctx)

	created, err := store.CreateTask(ctx, models.TaskInput{Title: "Call plumber"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	after, _ := store.ListTasks(ctx)
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d tasks, got %d", len(before)+1, len(after))
	}
	if after[0].ID != created.ID {
		t.Errorf("expected new task first, got id %d", after[0].ID)
	}
	for _, task := range before {
		if task.ID == created.ID {
			t.Errorf("id %d was reused", created.ID)
		}
	}
}

func TestMemoryIDsAreNeverReused(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, _ := store.CreateList(ctx, models.ListInput{Name: "one"})
	if first.ID != 1 {
		t.Errorf("expected first id in an empty store to be 1, got %d", first.ID)
	}
	if err := store.DeleteList(ctx, first.ID); err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}

	second, _ := store.CreateList(ctx, models.ListInput{Name: "two"})
	if second.ID == first.ID {
		t.Errorf("expected a fresh id after delete, got %d again", second.ID)
	}
}

func TestMemorySeedAdvancesCounter(t *testing.T) {
	store := setupMemoryStore(t)
	ctx := context.Background()

	created, _ := store.CreateTask(ctx, models.TaskInput{Title: "next"})
	if created.ID != 10 {
		t.Errorf("expected id 10 after seeding ids 1-9, got %d", created.ID)
	}

	list, _ := store.CreateList(ctx, models.ListInput{Name: "Travel"})
	if list.ID != 5 || list.Order != 4 {
		t.Errorf("expected id 5 order 4, got id %d order %d", list.ID, list.Order)
	}
}

func TestMemorySeedRejectsNonEmpty(t *testing.T) {
	store := setupMemoryStore(t)

	if err := store.Seed(context.Background(), Fixtures{}); !errors.Is(err, ErrNotEmpty) {
		t.Errorf("expected ErrNotEmpty, got %v", err)
	}
}

func TestMemorySeedRejectsDuplicateIDs(t *testing.T) {
	store := NewMemoryStore()

	err := store.Seed(context.Background(), Fixtures{Lists: []models.List{
		{ID: 1, Name: "a"},
		{ID: 1, Name: "b"},
	}})
	if err == nil {
		t.Error("expected duplicate seed ids to fail")
	}
}

func TestMemoryUpdatePreservesIdentity(t *testing.T) {
	store := setupMemoryStore(t)
	ctx := context.Background()

	before, _ := store.GetTask(ctx, 8)

	title := "Buy oat milk"
	updated, err := store.UpdateTask(ctx, 8, models.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	if updated.ID != 8 {
		t.Errorf("expected id 8, got %d", updated.ID)
	}
	if !updated.CreatedAt.Equal(before.CreatedAt) {
		t.Error("expected created_at to be unchanged")
	}
	if updated.Priority != before.Priority || updated.ListID != before.ListID {
		t.Error("expected untouched fields to be unchanged")
	}

	tasks, _ := store.ListTasks(ctx)
	if tasks[1].ID != 8 || tasks[1].Title != title {
		t.Errorf("expected update in place at position 1, got %+v", tasks[1])
	}
}

func TestMemoryDeleteOnlyTargets(t *testing.T) {
	store := setupMemoryStore(t)
	ctx := context.Background()

	before, _ := store.ListTasks(ctx)
	if err := store.DeleteTask(ctx, 5); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	after, _ := store.ListTasks(ctx)

	if len(after) != len(before)-1 {
		t.Fatalf("expected %d tasks, got %d", len(before)-1, len(after))
	}
	j := 0
	for _, task := range before {
		if task.ID == 5 {
			continue
		}
		if after[j].ID != task.ID {
			t.Errorf("position %d: expected id %d, got %d", j, task.ID, after[j].ID)
		}
		j++
	}

	if err := store.DeleteTask(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryNotFoundMessage(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetTask(context.Background(), 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "task not found: 7" {
		t.Errorf("expected %q, got %q", "task not found: 7", err.Error())
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	store := setupMemoryStore(t)
	ctx := context.Background()

	tasks, _ := store.ListTasks(ctx)
	tasks[0].Title = "mutated"
	if tasks[0].Notes != nil {
		*tasks[0].Notes = "mutated"
	}

	got, _ := store.GetTask(ctx, tasks[0].ID)
	if got.Title == "mutated" {
		t.Error("mutating a listed task changed the store")
	}

	cat, _ := store.GetCategory(ctx, 1)
	cat.Attributes["icon"] = "mutated"
	again, _ := store.GetCategory(ctx, 1)
	if again.Attributes["icon"] == "mutated" {
		t.Error("mutating category attributes changed the store")
	}
}

func TestMemoryCompletionStamp(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	store := setupMemoryStore(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	done := true
	got, err := store.UpdateTask(ctx, 8, models.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if got.Status != models.StatusCompleted {
		t.Errorf("expected status completed, got %q", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Errorf("expected completed_at %v, got %v", now, got.CompletedAt)
	}

	undo := false
	got, _ = store.UpdateTask(ctx, 8, models.TaskPatch{Completed: &undo})
	if got.CompletedAt != nil {
		t.Error("expected completed_at to be cleared")
	}
	if got.Status != models.StatusPending {
		t.Errorf("expected status pending, got %q", got.Status)
	}
}

func TestMemoryConcurrentCreates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := store.CreateTask(ctx, models.TaskInput{Title: fmt.Sprintf("task %d", i)})
			if err != nil {
				t.Errorf("CreateTask failed: %v", err)
				return
			}
			ids <- task.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d", id)
		}
		seen[id] = true
	}

	tasks, _ := store.ListTasks(ctx)
	if len(tasks) != n {
		t.Errorf("expected %d tasks, got %d", n, len(tasks))
	}
}

type recordingLatency struct {
	mu  sync.Mutex
	ops []Op
}

func (r *recordingLatency) Delay(op Op) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
	return 0
}

func TestMemoryConsultsLatency(t *testing.T) {
	rec := &recordingLatency{}
	store := NewMemoryStore(WithLatency(rec))
	ctx := context.Background()

	store.CreateCategory(ctx, models.CategoryInput{Name: "a"})
	store.ListCategories(ctx)
	store.GetTask(ctx, 1)

	want := []Op{
		{Entity: "category", Kind: OpCreate},
		{Entity: "category", Kind: OpList},
		{Entity: "task", Kind: OpGet},
	}
	if len(rec.ops) != len(want) {
		t.Fatalf("expected %d ops, got %d", len(want), len(rec.ops))
	}
	for i := range want {
		if rec.ops[i] != want[i] {
			t.Errorf("op %d: expected %+v, got %+v", i, want[i], rec.ops[i])
		}
	}
}

func TestSimulatedLatency(t *testing.T) {
	l := DefaultSimulatedLatency()

	tests := []struct {
		op   Op
		want time.Duration
	}{
		{Op{Entity: "task", Kind: OpList}, 300 * time.Millisecond},
		{Op{Entity: "task", Kind: OpCreate}, 400 * time.Millisecond},
		{Op{Entity: "list", Kind: OpDelete}, 250 * time.Millisecond},
		{Op{Entity: "category", Kind: OpGet}, 150 * time.Millisecond},
		{Op{Entity: "unknown", Kind: OpGet}, 0},
		{Op{Entity: "task", Kind: OpKind(42)}, 0},
	}

	for _, tt := range tests {
		if got := l.Delay(tt.op); got != tt.want {
			t.Errorf("Delay(%+v) = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures()
	if err != nil {
		t.Fatalf("LoadFixtures failed: %v", err)
	}

	if len(f.Lists) != 4 || len(f.Categories) != 3 || len(f.Tasks) != 9 {
		t.Errorf("unexpected fixture sizes: %d lists, %d categories, %d tasks",
			len(f.Lists), len(f.Categories), len(f.Tasks))
	}
	for i := 1; i < len(f.Tasks); i++ {
		if f.Tasks[i-1].CreatedAt.Before(f.Tasks[i].CreatedAt) {
			t.Errorf("fixture tasks are not most recent first at index %d", i)
		}
	}
}
