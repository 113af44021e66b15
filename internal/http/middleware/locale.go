package middleware

import (
	"net/http"
	"strings"

	"go-todo-rbac-service/internal/i18n"
)

// Locale lifts the first Accept-Language tag into the request context so
// error writers can translate message keys per request.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DefaultLanguage
		if header := r.Header.Get("Accept-Language"); header != "" {
			first := strings.SplitN(header, ",", 2)[0]
			if i := strings.Index(first, ";"); i >= 0 {
				first = first[:i]
			}
			if first = strings.TrimSpace(first); first != "" {
				lang = first
			}
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLocale(r.Context(), lang)))
	})
}
