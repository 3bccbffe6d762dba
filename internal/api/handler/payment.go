package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
	"github.com/projectreach/reach_go_server/internal/service"
)

type PaymentHandler struct {
	subscriptionService *service.SubscriptionService
	statsService        *service.StatsService
}

func NewPaymentHandler(
	subscriptionService *service.SubscriptionService,
	statsService *service.StatsService,
) *PaymentHandler {
	return &PaymentHandler{
		subscriptionService: subscriptionService,
		statsService:        statsService,
	}
}

// Plans 订阅方案列表
// GET /api/v1/payment/plans
func (h *PaymentHandler) Plans(c *gin.Context) {
	response.Success(c, h.subscriptionService.Plans())
}

// CreateSubscription 创建订阅
// POST /api/v1/payment/subscriptions
func (h *PaymentHandler) CreateSubscription(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.subscriptionService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPaymentDeclined):
			response.PaymentDeclinedError(c, err.Error())
		case errors.Is(err, service.ErrGatewayUnavailable):
			response.GatewayError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅创建成功", resp)
}

// CancelSubscription 取消订阅
// POST /api/v1/payment/subscriptions/:id/cancel
func (h *PaymentHandler) CancelSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅ID")
		return
	}

	sub, err := h.subscriptionService.Cancel(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrGatewayUnavailable):
			response.GatewayError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅将在当前周期末取消", sub)
}

// SubscriptionStatus 订阅状态
// GET /api/v1/payment/subscriptions/:id
func (h *PaymentHandler) SubscriptionStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅ID")
		return
	}

	resp, err := h.subscriptionService.Status(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// ActiveSubscriptions 活跃订阅列表
// GET /api/v1/payment/subscriptions
func (h *PaymentHandler) ActiveSubscriptions(c *gin.Context) {
	subs, err := h.subscriptionService.ListActive()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, subs)
}

// Stats 平台支付统计
// GET /api/v1/payment/stats
func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.PaymentStats()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}
