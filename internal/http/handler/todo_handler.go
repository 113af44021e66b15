package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/http/response"
	"go-todo-rbac-service/internal/observability"
	"go-todo-rbac-service/internal/service"
)

type TodoHandler struct {
	todoSvc *service.TodoService
}

func NewTodoHandler(todoSvc *service.TodoService) *TodoHandler {
	return &TodoHandler{todoSvc: todoSvc}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.todoSvc.List(r.Context(), pageRequestFromQuery(r))
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	todo, err := h.todoSvc.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, todo)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.TodoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.AppError(w, r, apperr.Wrap(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error", err))
		return
	}
	todo, err := h.todoSvc.Create(r.Context(), in)
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "todo.create",
		ActorUserID: actorID(r),
		TargetType:  "todo",
		TargetID:    strconv.FormatUint(uint64(todo.ID), 10),
		Action:      "create",
		Outcome:     "success",
		Reason:      "todo_created",
	})
	response.JSON(w, r, http.StatusCreated, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	var in service.TodoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.AppError(w, r, apperr.Wrap(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error", err))
		return
	}
	todo, err := h.todoSvc.Update(r.Context(), id, in)
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "todo.update",
		ActorUserID: actorID(r),
		TargetType:  "todo",
		TargetID:    strconv.FormatUint(uint64(id), 10),
		Action:      "update",
		Outcome:     "success",
		Reason:      "todo_updated",
	})
	response.JSON(w, r, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	if err := h.todoSvc.Delete(r.Context(), id); err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "todo.delete",
		ActorUserID: actorID(r),
		TargetType:  "todo",
		TargetID:    strconv.FormatUint(uint64(id), 10),
		Action:      "delete",
		Outcome:     "success",
		Reason:      "todo_deleted",
	})
	w.WriteHeader(http.StatusNoContent)
}
