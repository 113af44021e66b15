// Package i18n resolves message keys into localized user-facing text.
// Lookup is explicit at the error-construction or response-writing site; the
// fallback language is en_us.
package i18n

import (
	"context"
	"strings"
)

const (
	LangEnUS = "en_us"
	LangPtBR = "pt_br"

	DefaultLanguage = LangEnUS
)

var messages = map[string]map[string]string{
	"jwt_generated": {
		LangEnUS: "Tokens generated successfully.",
		LangPtBR: "Tokens gerados com sucesso.",
	},
	"jwt_refreshed": {
		LangEnUS: "Token refreshed successfully.",
		LangPtBR: "Token atualizado com sucesso.",
	},
	"jwt_revoked": {
		LangEnUS: "Tokens revoked successfully.",
		LangPtBR: "Tokens revogados com sucesso.",
	},
	"jwt_expired": {
		LangEnUS: "Token has expired.",
		LangPtBR: "O token JWT expirou.",
	},
	"jwt_invalid": {
		LangEnUS: "Invalid token.",
		LangPtBR: "Token inválido.",
	},
	"jwt_invalid_access_token": {
		LangEnUS: "Incorrect access credentials.",
		LangPtBR: "Credenciais de acesso incorretas.",
	},
	"jwt_invalid_header": {
		LangEnUS: "Invalid Authorization header.",
		LangPtBR: "Cabeçalho de autorização inválido.",
	},
	"jwt_invalid_structure": {
		LangEnUS: "Invalid token structure.",
		LangPtBR: "Estrutura de token inválida.",
	},
	"jwt_invalid_type": {
		LangEnUS: "Invalid token type.",
		LangPtBR: "Tipo de token inválido.",
	},
	"jwt_not_revoked": {
		LangEnUS: "Token could not be revoked.",
		LangPtBR: "O token não pôde ser revogado.",
	},
	"jwt_already_revoked": {
		LangEnUS: "Tokens already revoked.",
		LangPtBR: "Tokens já revogados.",
	},
	"not_basic_token": {
		LangEnUS: "Authorization scheme must be Basic.",
		LangPtBR: "O esquema de autorização deve ser Basic.",
	},
	"invalid_credentials": {
		LangEnUS: "Invalid credentials.",
		LangPtBR: "Credenciais inválidas.",
	},
	"inactive_user": {
		LangEnUS: "User is inactive.",
		LangPtBR: "Usuário inativo.",
	},
	"user_not_found": {
		LangEnUS: "User not found.",
		LangPtBR: "Usuário não encontrado.",
	},
	"only_moderators": {
		LangEnUS: "Resource not found.",
		LangPtBR: "Recurso não encontrado.",
	},
	"only_admin": {
		LangEnUS: "Resource not found.",
		LangPtBR: "Recurso não encontrado.",
	},
	"todo_not_found": {
		LangEnUS: "Todo not found.",
		LangPtBR: "Todo não encontrado.",
	},
	"role_not_found": {
		LangEnUS: "Role not found.",
		LangPtBR: "Cargo não encontrado.",
	},
	"email_invalid": {
		LangEnUS: "Email is invalid.",
		LangPtBR: "Email inválido.",
	},
	"email_exists": {
		LangEnUS: "Email already exists.",
		LangPtBR: "Email já existe.",
	},
	"password_too_weak": {
		LangEnUS: "Password is too weak. It must be at least 6 characters long and contain at least one letter and one number.",
		LangPtBR: "A senha é muito fraca. Deve ter pelo menos 6 caracteres e conter pelo menos uma letra e um número.",
	},
	"generic_error": {
		LangEnUS: "An unexpected error occurred.",
		LangPtBR: "Ocorreu um erro inesperado.",
	},
}

// Translate resolves key for the given language, falling back to en_us and
// finally to the key itself so unknown keys stay visible instead of blank.
func Translate(key, lang string) string {
	table, ok := messages[key]
	if !ok {
		return key
	}
	if text, ok := table[normalize(lang)]; ok {
		return text
	}
	return table[DefaultLanguage]
}

type localeCtxKey struct{}

// WithLocale stores the request language on the context.
func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, localeCtxKey{}, lang)
}

// LocaleFromContext returns the stored language, or the default when none
// was set.
func LocaleFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(localeCtxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLanguage
}

func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	lang = strings.ReplaceAll(lang, "-", "_")
	switch {
	case strings.HasPrefix(lang, "pt"):
		return LangPtBR
	case strings.HasPrefix(lang, "en"):
		return LangEnUS
	}
	return lang
}
