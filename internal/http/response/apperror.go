package response

import (
	"net/http"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/i18n"
)

// AppError renders a classified error with its message key translated into
// the request language. Unclassified errors render as a generic 500.
func AppError(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LocaleFromContext(r.Context())
	if appErr, ok := apperr.From(err); ok {
		Error(w, r, appErr.Status, string(appErr.Kind), i18n.Translate(appErr.MessageKey, lang), nil)
		return
	}
	Error(w, r, http.StatusInternalServerError, string(apperr.KindGeneric), i18n.Translate("generic_error", lang), nil)
}
