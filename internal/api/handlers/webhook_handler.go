package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	svix "github.com/svix/svix-webhooks/go"
	"github.com/yoockh/taskbox/internal/metrics"
	"github.com/yoockh/taskbox/internal/services"
	"github.com/yoockh/taskbox/internal/utils"
)

// webhookTimeout bounds how long a delivery may hold its HTTP connection.
// Processing is not cancelled on timeout: a slow insert may still land after
// the 500 is sent, and the provider's redelivery is absorbed by idempotency.
const webhookTimeout = 25 * time.Second

type WebhookHandler struct {
	svc     services.ProvisioningService
	log     *logrus.Logger
	secret  string
	timeout time.Duration
}

func NewWebhookHandler(svc services.ProvisioningService, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		svc:     svc,
		log:     log,
		secret:  os.Getenv("WEBHOOK_SECRET"),
		timeout: webhookTimeout,
	}
}

type webhookEnvelope struct {
	Data json.RawMessage `json:"data"`
	Type string          `json:"type"`
}

// Register handles Clerk "user.created" deliveries on /webhook/register.
func (h *WebhookHandler) Register(c *gin.Context) {
	if h.secret == "" {
		h.log.Error("WEBHOOK_SECRET is not set")
		c.String(http.StatusInternalServerError, "WEBHOOK_SECRET is not set")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read request body")
		return
	}

	wh, err := svix.NewWebhook(h.secret)
	if err != nil {
		h.log.WithError(err).Error("webhook verifier init failed")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := wh.Verify(body, c.Request.Header); err != nil {
		h.log.WithError(err).Warn("webhook signature verification failed")
		metrics.WebhookEvents.WithLabelValues("unknown", "bad_signature").Inc()
		c.String(http.StatusBadRequest, "Error in verifying webhook")
		return
	}

	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.String(http.StatusBadRequest, "invalid webhook payload")
		return
	}

	msgID := c.GetHeader("svix-id")

	// Detached context: the response deadline must not cancel database work
	// already in flight.
	ctx := context.WithoutCancel(c.Request.Context())
	done := make(chan error, 1)
	go func() {
		done <- h.process(ctx, msgID, env.Type, env.Data, body)
	}()

	select {
	case err := <-done:
		if err != nil {
			h.log.WithError(err).WithField("svix_id", msgID).Error("webhook processing failed")
			metrics.WebhookEvents.WithLabelValues(env.Type, "error").Inc()
			c.String(http.StatusInternalServerError, "Error processing webhook")
			return
		}
		metrics.WebhookEvents.WithLabelValues(env.Type, "ok").Inc()
		c.String(http.StatusOK, "Webhook received successfully")
	case <-time.After(h.timeout):
		err := utils.E(utils.CodeTimeout, "WebhookHandler.Register", "webhook processing timed out", nil)
		h.log.WithError(err).WithField("svix_id", msgID).Error("webhook processing timed out")
		metrics.WebhookEvents.WithLabelValues(env.Type, "timeout").Inc()
		c.String(utils.HTTPStatus(err), "Webhook timeout")
	}
}

func (h *WebhookHandler) process(ctx context.Context, msgID, eventType string, data, raw []byte) error {
	seen, err := h.svc.SeenEvent(ctx, msgID)
	if err != nil {
		return err
	}
	if seen {
		h.log.WithField("svix_id", msgID).Info("duplicate webhook delivery, skipping")
		return nil
	}

	if eventType == "user.created" {
		var evt services.UserCreatedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			return err
		}
		created, err := h.svc.HandleUserCreated(ctx, evt)
		if err != nil {
			return err
		}
		if created {
			h.log.WithField("user_id", evt.ID).Info("user provisioned from webhook")
		}
	}

	return h.svc.RecordEvent(ctx, msgID, eventType, raw)
}
