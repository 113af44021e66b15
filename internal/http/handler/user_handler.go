package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/http/middleware"
	"go-todo-rbac-service/internal/http/response"
	"go-todo-rbac-service/internal/observability"
	"go-todo-rbac-service/internal/repository"
	"go-todo-rbac-service/internal/service"
)

type UserHandler struct {
	userSvc *service.UserService
}

func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.userSvc.List(r.Context(), pageRequestFromQuery(r))
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	user, err := h.userSvc.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.AppError(w, r, apperr.New(apperr.KindNotFound, http.StatusUnauthorized, "user_not_found"))
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.AppError(w, r, apperr.Wrap(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error", err))
		return
	}
	user, err := h.userSvc.Create(r.Context(), in)
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "user.create",
		ActorUserID: actorID(r),
		TargetType:  "user",
		TargetID:    strconv.FormatUint(uint64(user.ID), 10),
		Action:      "create",
		Outcome:     "success",
		Reason:      "user_created",
	}, "role", user.Role.Slug)
	response.JSON(w, r, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	var in service.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.AppError(w, r, apperr.Wrap(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error", err))
		return
	}
	user, err := h.userSvc.Update(r.Context(), id, in)
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "user.update",
		ActorUserID: actorID(r),
		TargetType:  "user",
		TargetID:    strconv.FormatUint(uint64(id), 10),
		Action:      "update",
		Outcome:     "success",
		Reason:      "user_updated",
	})
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	if err := h.userSvc.Delete(r.Context(), id); err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "user.delete",
		ActorUserID: actorID(r),
		TargetType:  "user",
		TargetID:    strconv.FormatUint(uint64(id), 10),
		Action:      "delete",
		Outcome:     "success",
		Reason:      "user_deleted",
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.AppError(w, r, apperr.Wrap(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error", err))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.AppError(w, r, apperr.Wrap(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error", err))
		return
	}
	defer func() { _ = file.Close() }()

	key, err := h.userSvc.UploadAvatar(r.Context(), id, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "user.avatar.upload",
		ActorUserID: actorID(r),
		TargetType:  "user",
		TargetID:    strconv.FormatUint(uint64(id), 10),
		Action:      "upload",
		Outcome:     "success",
		Reason:      "avatar_stored",
	}, "object_key", key, "file_size", header.Size)
	response.JSON(w, r, http.StatusOK, map[string]any{"object_key": key})
}

func (h *UserHandler) AvatarURL(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	url, err := h.userSvc.AvatarURL(r.Context(), id)
	if err != nil {
		response.AppError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"avatar_url": url})
}

func idParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error", err)
	}
	return uint(id64), nil
}

func pageRequestFromQuery(r *http.Request) repository.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return repository.PageRequest{Page: page, PageSize: size}
}

func actorID(r *http.Request) string {
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		return observability.ActorUserID(user.ID)
	}
	return ""
}
