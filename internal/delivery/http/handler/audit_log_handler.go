package handler

import (
	"net/http"

	"schedule-agent/internal/usecase"
	"schedule-agent/pkg/response"
)

type AuditLogHandler struct {
	auditUsecase usecase.AuditUsecase
}

func NewAuditLogHandler(auditUsecase usecase.AuditUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditUsecase: auditUsecase,
	}
}

// GetAuditLogs returns the booking event trail, newest first.
func (h *AuditLogHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.auditUsecase.ListAuditLogs(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", logs)
}
