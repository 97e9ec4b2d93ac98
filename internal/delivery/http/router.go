package http

import (
	"net/http"

	"schedule-agent/internal/delivery/http/handler"
	"schedule-agent/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	webhookHandler      *handler.WebhookHandler
	availabilityHandler *handler.AvailabilityHandler
	appointmentHandler  *handler.AppointmentHandler
	auditLogHandler     *handler.AuditLogHandler
	corsMiddleware      *middleware.CORSMiddleware
	requestLogger       *middleware.RequestLoggerMiddleware
}

func NewRouter(
	webhookHandler *handler.WebhookHandler,
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	corsMiddleware *middleware.CORSMiddleware,
	requestLogger *middleware.RequestLoggerMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		webhookHandler:      webhookHandler,
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		auditLogHandler:     auditLogHandler,
		corsMiddleware:      corsMiddleware,
		requestLogger:       requestLogger,
	}
}

func (r *Router) Setup() *mux.Router {
	// Messaging webhook (transport envelope, outside the API prefix)
	r.router.HandleFunc("/webhook/whatsapp", r.webhookHandler.HandleWhatsApp).Methods(http.MethodPost)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Availability
	api.HandleFunc("/availability", r.availabilityHandler.GetAvailability).Methods(http.MethodGet)

	// Manual booking
	api.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	// Audit trail
	api.HandleFunc("/audit-logs", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)

	// Add middleware
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.requestLogger.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok", "service": "schedule-agent"}`))
}
