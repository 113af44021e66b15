package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/observability"
)

var ErrTodoNotFound = errors.New("todo not found")

type TodoRepository interface {
	List(page PageRequest) (PageResult[domain.Todo], error)
	FindByID(id uint) (*domain.Todo, error)
	Create(todo *domain.Todo) error
	Update(todo *domain.Todo) error
	Delete(id uint) error
}

type GormTodoRepository struct{ db *gorm.DB }

func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

func (r *GormTodoRepository) List(page PageRequest) (PageResult[domain.Todo], error) {
	page = normalizePageRequest(page)

	var total int64
	if err := r.db.Model(&domain.Todo{}).Count(&total).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "list", "error")
		return PageResult[domain.Todo]{}, err
	}

	var todos []domain.Todo
	err := r.db.Order("id asc").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&todos).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "list", "error")
		return PageResult[domain.Todo]{}, err
	}

	observability.RecordRepositoryOperation(context.Background(), "todo", "list", "success")
	return PageResult[domain.Todo]{
		Items:      todos,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: calcTotalPages(total, page.PageSize),
	}, nil
}

func (r *GormTodoRepository) FindByID(id uint) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.First(&todo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "todo", "find_by_id", "not_found")
			return nil, ErrTodoNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "todo", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "find_by_id", "success")
	return &todo, nil
}

func (r *GormTodoRepository) Create(todo *domain.Todo) error {
	if err := r.db.Create(todo).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "create", "success")
	return nil
}

func (r *GormTodoRepository) Update(todo *domain.Todo) error {
	res := r.db.Model(&domain.Todo{}).Where("id = ?", todo.ID).Updates(map[string]any{
		"name":        todo.Name,
		"percentage":  todo.Percentage,
		"description": todo.Description,
	})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "todo", "update", "not_found")
		return ErrTodoNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "update", "success")
	return nil
}

func (r *GormTodoRepository) Delete(id uint) error {
	res := r.db.Delete(&domain.Todo{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "todo", "delete", "not_found")
		return ErrTodoNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "delete", "success")
	return nil
}
