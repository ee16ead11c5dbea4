package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labsuite/labsuite/internal/platform/registry"
)

// AuditEntry describes one command sent to a collection.
type AuditEntry struct {
	RequestID  string
	ClientID   string
	Module     string
	Collection string
	RecordID   string
	Action     string // create, update, toggle, delete, treat, transfer, bill, dispatch
	Method     string
	Path       string
	RemoteIP   string
	Status     int
	Timestamp  time.Time
}

// AuditRecorder persists audit entries somewhere other than the log.
type AuditRecorder interface {
	RecordCommand(entry AuditEntry) error
}

type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordCommand(entry AuditEntry) error { return f(entry) }

// Audit logs every mutating request under /api/v1 after it completes. Reads
// are not audited.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodGet || req.Method == http.MethodHead || req.Method == http.MethodOptions ||
				!strings.HasPrefix(req.URL.Path, "/api/v1/") {
				return next(c)
			}

			err := next(c)

			entry := parseCommandPath(req.Method, req.URL.Path)
			entry.RequestID, _ = c.Get("request_id").(string)
			entry.ClientID = req.Header.Get(registry.ClientIDHeader)
			entry.RemoteIP = c.RealIP()
			entry.Status = c.Response().Status
			entry.Timestamp = time.Now().UTC()

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordCommand(entry); recErr != nil {
					logger.Error().Err(recErr).Str("request_id", entry.RequestID).Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "command_audit").
				Str("request_id", entry.RequestID).
				Str("client_id", entry.ClientID).
				Str("module", entry.Module).
				Str("collection", entry.Collection).
				Str("record_id", entry.RecordID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.RemoteIP).
				Int("status", entry.Status).
				Msg("command")

			return err
		}
	}
}

// parseCommandPath splits /api/v1/<module>/<collection>[/<id>][/<verb>] into
// an entry.
func parseCommandPath(method, path string) AuditEntry {
	entry := AuditEntry{Method: method, Path: path, Action: "create"}
	segs := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api/v1/"), "/"), "/")
	if len(segs) > 0 {
		entry.Module = segs[0]
	}
	if len(segs) > 1 {
		entry.Collection = segs[1]
	}
	rest := segs[min(2, len(segs)):]
	if len(rest) > 0 {
		if _, err := uuid.Parse(rest[0]); err == nil {
			entry.RecordID = rest[0]
			rest = rest[1:]
		}
	}

	switch method {
	case http.MethodPut, http.MethodPatch:
		entry.Action = "update"
	case http.MethodDelete:
		entry.Action = "delete"
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "status":
			entry.Action = "toggle"
		case "tratamento":
			entry.Action = "treat"
		case "transferencias":
			entry.Action = "transfer"
		case "faturar":
			entry.Action = "bill"
		case "enviar":
			entry.Action = "dispatch"
		}
	}
	return entry
}
