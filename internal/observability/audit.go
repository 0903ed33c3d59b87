package observability

import (
	"log/slog"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
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
	if id == 0 {
		return "anonymous"
	}
	return strconv.FormatUint(uint64(id), 10)
}

// EmitAudit writes one structured audit record for a state-changing request.
// Extra key/value pairs are appended verbatim.
func EmitAudit(r *http.Request, in AuditInput, kv ...any) {
	args := []any{
		"audit", true,
		"event", in.EventName,
		"actor_user_id", in.ActorUserID,
		"target_type", in.TargetType,
		"target_id", in.TargetID,
		"action", in.Action,
		"outcome", in.Outcome,
		"reason", in.Reason,
		"request_id", chimiddleware.GetReqID(r.Context()),
	}
	args = append(args, kv...)
	slog.Default().InfoContext(r.Context(), "audit_event", args...)
}
