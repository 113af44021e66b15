package handler

import (
	"net/http"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/http/response"
	"go-todo-rbac-service/internal/i18n"
	"go-todo-rbac-service/internal/observability"
	"go-todo-rbac-service/internal/security"
	"go-todo-rbac-service/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Issue exchanges a basic credential for a token pair. The credential comes
// from the Authorization header, or from login/password form fields as a
// fallback for clients that cannot set headers.
func (h *AuthHandler) Issue(w http.ResponseWriter, r *http.Request) {
	scheme, credential, err := h.basicCredential(r)
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	pair, err := h.authSvc.Issue(r.Context(), scheme, credential)
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "auth.issue",
		TargetType: "token_pair",
		TargetID:   "new",
		Action:     "issue",
		Outcome:    "success",
		Reason:     pair.Detail,
	})
	lang := i18n.LocaleFromContext(r.Context())
	response.JSONWithDetail(w, r, http.StatusCreated, tokenPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, i18n.Translate(pair.Detail, lang))
}

// Refresh rotates the access token behind the Refreshtoken header.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.Header.Get("Refreshtoken")
	if refreshToken == "" {
		response.AppError(w, r, apperr.New(apperr.KindInvalidHeader, http.StatusUnauthorized, "jwt_invalid_header"))
		return
	}

	pair, err := h.authSvc.Refresh(r.Context(), refreshToken)
	if err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "auth.refresh",
		TargetType: "token_pair",
		TargetID:   "rotated",
		Action:     "refresh",
		Outcome:    "success",
		Reason:     pair.Detail,
	})
	lang := i18n.LocaleFromContext(r.Context())
	response.JSONWithDetail(w, r, http.StatusOK, tokenPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, i18n.Translate(pair.Detail, lang))
}

// Revoke tears down the pair behind the bearer access token.
func (h *AuthHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.authSvc.Revoke(r.Context(), r.Header.Get("Authorization")); err != nil {
		response.AppError(w, r, err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "auth.revoke",
		TargetType: "token_pair",
		TargetID:   "current",
		Action:     "revoke",
		Outcome:    "success",
		Reason:     "jwt_revoked",
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) basicCredential(r *http.Request) (string, string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, credential, err := security.SplitAuthHeader(header)
		if err != nil {
			return "", "", apperr.Wrap(apperr.KindInvalidHeader, http.StatusUnauthorized, "jwt_invalid_header", err)
		}
		return scheme, credential, nil
	}

	// Form fallback: assemble the basic blob the same way a client would.
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" {
		return "", "", apperr.New(apperr.KindInvalidType, http.StatusUnauthorized, "not_basic_token")
	}
	return "basic", security.BasicCredential(username, password), nil
}
