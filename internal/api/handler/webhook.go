package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/projectreach/reach_go_server/internal/pkg/queue"
)

// WebhookHandler 接收网关回调：验签后只做入队，重活交给 worker。
// 入队失败也返回 200，网关稍后会重发，幂等层保证重放无害
type WebhookHandler struct {
	eventQueue    *queue.Queue
	webhookSecret string
}

func NewWebhookHandler(eventQueue *queue.Queue, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		eventQueue:    eventQueue,
		webhookSecret: webhookSecret,
	}
}

// Handle 网关 webhook 入口
// POST /api/v1/webhook
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 65536))
	if err != nil {
		c.Status(http.StatusRequestEntityTooLarge)
		return
	}

	// 网关推送的 api_version 随商户配置变化，只验签不校验版本
	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	msg := &queue.EventMessage{
		EventID: event.ID,
		Type:    string(event.Type),
		Payload: event.Data.Raw,
	}
	if err := h.eventQueue.Push(c.Request.Context(), msg); err != nil {
		log.Printf("Failed to enqueue webhook event %s: %v", event.ID, err)
	}

	c.Status(http.StatusOK)
}
