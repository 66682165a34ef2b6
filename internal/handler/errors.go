package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
	"github.com/dazedmind/legalynx-sub004/internal/httputil"
)

// respondServiceError maps domain errors onto RFC 7807 problem responses.
func respondServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflict.Error(), map[string]interface{}{
			"resource_type": conflict.ResourceType,
			"resource_id":   conflict.ResourceID,
		})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnsupportedType):
		httputil.RespondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, "document content is temporarily unavailable")
	default:
		logger.Error("unhandled service error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requestSource extracts the caller's network identity for audit events.
func requestSource(r *http.Request) services.RequestSource {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		// First hop is the client.
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		ip = strings.TrimSpace(ip)
	} else {
		ip = r.RemoteAddr
		if i := strings.LastIndexByte(ip, ':'); i >= 0 {
			ip = ip[:i]
		}
	}

	return services.RequestSource{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}
