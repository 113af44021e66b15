package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/repository"
)

type stubTodoRepository struct {
	byID   map[uint]*domain.Todo
	nextID uint
}

func newStubTodoRepository() *stubTodoRepository {
	return &stubTodoRepository{byID: map[uint]*domain.Todo{}, nextID: 1}
}

func (s *stubTodoRepository) List(page repository.PageRequest) (repository.PageResult[domain.Todo], error) {
	items := make([]domain.Todo, 0, len(s.byID))
	for _, todo := range s.byID {
		items = append(items, *todo)
	}
	return repository.PageResult[domain.Todo]{Items: items, Page: 1, PageSize: len(items), Total: int64(len(items)), TotalPages: 1}, nil
}

func (s *stubTodoRepository) FindByID(id uint) (*domain.Todo, error) {
	if todo, ok := s.byID[id]; ok {
		copied := *todo
		return &copied, nil
	}
	return nil, repository.ErrTodoNotFound
}

func (s *stubTodoRepository) Create(todo *domain.Todo) error {
	todo.ID = s.nextID
	s.nextID++
	copied := *todo
	s.byID[todo.ID] = &copied
	return nil
}

func (s *stubTodoRepository) Update(todo *domain.Todo) error {
	if _, ok := s.byID[todo.ID]; !ok {
		return repository.ErrTodoNotFound
	}
	copied := *todo
	s.byID[todo.ID] = &copied
	return nil
}

func (s *stubTodoRepository) Delete(id uint) error {
	if _, ok := s.byID[id]; !ok {
		return repository.ErrTodoNotFound
	}
	delete(s.byID, id)
	return nil
}

func newTodoServiceForTest() *TodoService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTodoService(newStubTodoRepository(), logger)
}

func TestTodoLifecycle(t *testing.T) {
	s := newTodoServiceForTest()
	ctx := context.Background()

	created, err := s.Create(ctx, TodoInput{Name: "write report", Percentage: 25, Description: "quarterly numbers"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	updated, err := s.Update(ctx, created.ID, TodoInput{Name: "write report", Percentage: 100, Description: "done"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Percentage != 100 {
		t.Fatalf("percentage not updated: %v", updated.Percentage)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected KindNotFound after delete, got %v", err)
	}
}

func TestTodoValidation(t *testing.T) {
	s := newTodoServiceForTest()
	ctx := context.Background()

	if _, err := s.Create(ctx, TodoInput{Name: "", Percentage: 10}); !apperr.IsKind(err, apperr.KindInvalidStructure) {
		t.Fatalf("empty name: expected KindInvalidStructure, got %v", err)
	}
	if _, err := s.Create(ctx, TodoInput{Name: "x", Percentage: 101}); !apperr.IsKind(err, apperr.KindInvalidStructure) {
		t.Fatalf("percentage > 100: expected KindInvalidStructure, got %v", err)
	}
	if _, err := s.Create(ctx, TodoInput{Name: "x", Percentage: -1}); !apperr.IsKind(err, apperr.KindInvalidStructure) {
		t.Fatalf("negative percentage: expected KindInvalidStructure, got %v", err)
	}
}

func TestTodoUpdateMissing(t *testing.T) {
	s := newTodoServiceForTest()

	if _, err := s.Update(context.Background(), 42, TodoInput{Name: "x", Percentage: 0}); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
