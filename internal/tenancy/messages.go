package tenancy

import (
	"fmt"
	"strings"
)

// Messages holds the user-facing denial texts for one locale.
type Messages struct {
	Unauthenticated string
	Forbidden       string
	ForbiddenDetail string
	NotFound        string
	// NotBelong is a format string receiving the offending field name.
	NotBelong      string
	TenantMismatch string
	InvalidPayload string
}

var catalogs = map[string]Messages{
	"en": {
		Unauthenticated: "Authentication required",
		Forbidden:       "Access denied",
		ForbiddenDetail: "Your role is not allowed to perform this operation",
		NotFound:        "Resource not found",
		NotBelong:       "%s does not belong to this organization",
		TenantMismatch:  "%s must match the authenticated organization",
		InvalidPayload:  "invalid JSON payload",
	},
	"pt-BR": {
		Unauthenticated: "Autenticação necessária",
		Forbidden:       "Acesso negado",
		ForbiddenDetail: "Seu perfil não tem permissão para realizar esta operação",
		NotFound:        "Recurso não encontrado",
		NotBelong:       "%s não pertence a esta organização",
		TenantMismatch:  "%s deve corresponder à organização autenticada",
		InvalidPayload:  "payload JSON inválido",
	},
}

// DefaultLocale is used when a configured locale has no message catalog.
const DefaultLocale = "en"

// MessagesFor returns the message catalog for locale, falling back to English.
// Matching ignores case and accepts "pt_BR" spelling.
func MessagesFor(locale string) Messages {
	key := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	for name, msgs := range catalogs {
		if strings.EqualFold(name, key) {
			return msgs
		}
	}
	return catalogs[DefaultLocale]
}

// Locales lists the locales with a message catalog.
func Locales() []string {
	return []string{"en", "pt-BR"}
}

// ForDecision renders the error text for a denied decision.
func (m Messages) ForDecision(d Decision) string {
	switch d.Outcome {
	case Unauthenticated:
		return m.Unauthenticated
	case Forbidden:
		return m.Forbidden
	case NotFound:
		return m.NotFound
	case ValidationError:
		switch d.Reason {
		case ReasonTenantMismatch:
			return fmt.Sprintf(m.TenantMismatch, d.Field)
		case ReasonMalformed:
			return m.InvalidPayload
		default:
			return fmt.Sprintf(m.NotBelong, d.Field)
		}
	default:
		return ""
	}
}
