package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/query"
	"taskflow/internal/store"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func setupServices(t *testing.T) (*Services, *store.MemoryStore) {
	t.Helper()
	clock := func() time.Time { return testNow }

	s := store.NewMemoryStore(store.WithClock(clock))
	fixtures, err := store.LoadFixtures()
	if err != nil {
		t.Fatalf("LoadFixtures failed: %v", err)
	}
	if err := s.Seed(context.Background(), fixtures); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return New(s, WithClock(clock)), s
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input models.TaskInput
	}{
		{"empty title", models.TaskInput{Title: ""}},
		{"blank title", models.TaskInput{Title: "   "}},
		{"bad priority", models.TaskInput{Title: "x", Priority: "urgent"}},
		{"bad status", models.TaskInput{Title: "x", Status: "done"}},
		{"negative list", models.TaskInput{Title: "x", ListID: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Tasks.Create(ctx, tt.input)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestCreateTaskTrimsTitle(t *testing.T) {
	svc, _ := setupServices(t)

	task, err := svc.Tasks.Create(context.Background(), models.TaskInput{Title: "  Call mom  "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.Title != "Call mom" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
}

func TestToggle(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	task, err := svc.Tasks.Toggle(ctx, 8)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !task.Completed || task.CompletedAt == nil || !task.CompletedAt.Equal(testNow) {
		t.Errorf("expected completed task stamped at %v, got %+v", testNow, task)
	}

	task, err = svc.Tasks.Toggle(ctx, 8)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if task.Completed || task.CompletedAt != nil {
		t.Errorf("expected reopened task, got %+v", task)
	}

	if _, err := svc.Tasks.Toggle(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestView(t *testing.T) {
	svc, _ := setupServices(t)

	p, err := svc.Tasks.View(context.Background(), query.Filter{Search: "BUY", ShowCompleted: true})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if len(p.Pending) != 1 || p.Pending[0].Title != "Buy milk" {
		t.Errorf("expected only \"Buy milk\" pending, got %+v", p.Pending)
	}
	for _, task := range p.Completed {
		if !task.Completed {
			t.Errorf("task %d in completed group is open", task.ID)
		}
	}
}

func TestStats(t *testing.T) {
	svc, _ := setupServices(t)

	stats, err := svc.Tasks.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 9 || stats.Completed+stats.Pending != stats.Total {
		t.Errorf("inconsistent stats: %+v", stats)
	}
}

func TestUpcomingDays(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	for _, days := range []int{0, 7, 14, 30} {
		if _, err := svc.Tasks.Upcoming(ctx, days); err != nil {
			t.Errorf("Upcoming(%d) failed: %v", days, err)
		}
	}
	for _, days := range []int{-1, 1, 31} {
		if _, err := svc.Tasks.Upcoming(ctx, days); !errors.Is(err, ErrInvalid) {
			t.Errorf("Upcoming(%d): expected ErrInvalid, got %v", days, err)
		}
	}
}

func TestDigest(t *testing.T) {
	svc, _ := setupServices(t)

	digest, err := svc.Tasks.Digest(context.Background())
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if !strings.HasPrefix(digest, "Digest for 2026-10-15:") {
		t.Errorf("unexpected digest header: %q", digest)
	}
	if !strings.Contains(digest, "overdue: ") {
		t.Errorf("expected overdue tasks in digest, got %q", digest)
	}
}

func TestListTaskCountIsDerived(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	created, err := svc.Tasks.Create(ctx, models.TaskInput{Title: "Pack bags", ListID: 4})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := svc.Lists.Get(ctx, 4)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if list.TaskCount != 2 {
		t.Errorf("expected 2 tasks in list 4, got %d", list.TaskCount)
	}

	if err := svc.Tasks.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	lists, err := svc.Lists.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	for _, l := range lists {
		if l.ID == 4 && l.TaskCount != 1 {
			t.Errorf("expected 1 task in list 4 after delete, got %d", l.TaskCount)
		}
	}
}

func TestListTasks(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	p, err := svc.Lists.Tasks(ctx, 3, query.Filter{ShowCompleted: true})
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	for _, task := range append(p.Pending, p.Completed...) {
		if task.ListID != 3 {
			t.Errorf("task %d belongs to list %d", task.ID, task.ListID)
		}
	}

	if _, err := svc.Lists.Tasks(ctx, 99, query.Filter{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndCategoryValidation(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	empty := ""
	negative := -1

	if _, err := svc.Lists.Create(ctx, models.ListInput{}); !errors.Is(err, ErrInvalid) {
		t.Errorf("list create: expected ErrInvalid, got %v", err)
	}
	if _, err := svc.Lists.Update(ctx, 1, models.ListPatch{Order: &negative}); !errors.Is(err, ErrInvalid) {
		t.Errorf("list update: expected ErrInvalid, got %v", err)
	}
	if _, err := svc.Categories.Create(ctx, models.CategoryInput{}); !errors.Is(err, ErrInvalid) {
		t.Errorf("category create: expected ErrInvalid, got %v", err)
	}
	if _, err := svc.Categories.Update(ctx, 1, models.CategoryPatch{Name: &empty}); !errors.Is(err, ErrInvalid) {
		t.Errorf("category update: expected ErrInvalid, got %v", err)
	}
}

func TestInvalidUpdateLeavesStoreUnchanged(t *testing.T) {
	svc, s := setupServices(t)
	ctx := context.Background()

	before, _ := s.GetTask(ctx, 8)

	bad := models.Priority("urgent")
	if _, err := svc.Tasks.Update(ctx, 8, models.TaskPatch{Priority: &bad}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	after, _ := s.GetTask(ctx, 8)
	if after.Priority != before.Priority {
		t.Errorf("expected priority %q, got %q", before.Priority, after.Priority)
	}
}
