package handler

import (
	"encoding/xml"
	"net/http"

	"schedule-agent/internal/usecase"

	"github.com/sirupsen/logrus"
)

// twimlResponse is the XML envelope Twilio expects back from a WhatsApp
// webhook.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

type WebhookHandler struct {
	conversationUsecase usecase.ConversationUsecase
	log                 *logrus.Logger
}

func NewWebhookHandler(conversationUsecase usecase.ConversationUsecase, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		conversationUsecase: conversationUsecase,
		log:                 log,
	}
}

// HandleWhatsApp receives one inbound message (form fields From and Body),
// runs the conversation turn and answers with TwiML. Failures reply with a
// generic message instead of crashing the webhook.
func (h *WebhookHandler) HandleWhatsApp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	h.log.Infof("WhatsApp message from %s: %s", from, body)

	reply, err := h.conversationUsecase.HandleInbound(r.Context(), from, body)
	if err != nil {
		h.log.Errorf("Webhook processing failed for %s: %+v", from, err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	h.writeTwiML(w, reply)
}

func (h *WebhookHandler) writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(twimlResponse{Message: message}); err != nil {
		h.log.Errorf("Failed to encode TwiML response: %+v", err)
	}
}
