package observability

import (
	"log/slog"
	"net/http"
	"strconv"
)

type AuditInput struct {
	EventName   string
	ActorUserID string
	TargetType  string
	TargetID    string
	Action      string
	Outcome     string
	Reason      string
}

func ActorUserID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// EmitAudit writes a structured audit record for a security-relevant action.
// Extra key/value pairs are appended verbatim.
func EmitAudit(r *http.Request, in AuditInput, extra ...any) {
	args := []any{
		"event", in.EventName,
		"actor_user_id", in.ActorUserID,
		"target_type", in.TargetType,
		"target_id", in.TargetID,
		"action", in.Action,
		"outcome", in.Outcome,
		"reason", in.Reason,
	}
	args = append(args, extra...)
	slog.Default().InfoContext(r.Context(), "audit", args...)
}
