package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/repository"
)

type TodoInput struct {
	Name        string  `json:"name"`
	Percentage  float64 `json:"percentage"`
	Description string  `json:"description"`
}

type TodoService struct {
	todos  repository.TodoRepository
	logger *slog.Logger
}

func NewTodoService(todos repository.TodoRepository, logger *slog.Logger) *TodoService {
	return &TodoService{todos: todos, logger: logger}
}

func (s *TodoService) List(ctx context.Context, page repository.PageRequest) (repository.PageResult[domain.Todo], error) {
	result, err := s.todos.List(page)
	if err != nil {
		return result, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	return result, nil
}

func (s *TodoService) Get(ctx context.Context, id uint) (*domain.Todo, error) {
	todo, err := s.todos.FindByID(id)
	if err != nil {
		return nil, mapTodoError(err)
	}
	return todo, nil
}

func (s *TodoService) Create(ctx context.Context, in TodoInput) (*domain.Todo, error) {
	if err := validateTodoInput(in); err != nil {
		return nil, err
	}
	todo := &domain.Todo{
		Name:        in.Name,
		Percentage:  in.Percentage,
		Description: in.Description,
	}
	if err := s.todos.Create(todo); err != nil {
		return nil, mapTodoError(err)
	}
	s.logger.InfoContext(ctx, "todo created", "todo_id", todo.ID)
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, id uint, in TodoInput) (*domain.Todo, error) {
	if err := validateTodoInput(in); err != nil {
		return nil, err
	}
	todo, err := s.todos.FindByID(id)
	if err != nil {
		return nil, mapTodoError(err)
	}
	todo.Name = in.Name
	todo.Percentage = in.Percentage
	todo.Description = in.Description
	if err := s.todos.Update(todo); err != nil {
		return nil, mapTodoError(err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, id uint) error {
	if err := s.todos.Delete(id); err != nil {
		return mapTodoError(err)
	}
	s.logger.InfoContext(ctx, "todo deleted", "todo_id", id)
	return nil
}

func validateTodoInput(in TodoInput) error {
	if in.Name == "" {
		return apperr.New(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error")
	}
	if in.Percentage < 0 || in.Percentage > 100 {
		return apperr.New(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error")
	}
	return nil
}

func mapTodoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrTodoNotFound):
		return apperr.Wrap(apperr.KindNotFound, http.StatusNotFound, "todo_not_found", err)
	default:
		return apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
}
