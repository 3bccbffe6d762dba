package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
	"github.com/projectreach/reach_go_server/internal/service"
)

type DonationHandler struct {
	donationService *service.DonationService
}

func NewDonationHandler(donationService *service.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
	}
}

// Donate 同步捐赠结算
// POST /api/v1/donations
func (h *DonationHandler) Donate(c *gin.Context) {
	var req dto.DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.donationService.Settle(c.Request.Context(), &req)
	if err != nil {
		// 已扣款未入账必须把扣款单号还给调用方
		var settleErr *service.SettlementError
		if errors.As(err, &settleErr) {
			response.SettlementError(c, settleErr.ChargeID)
			return
		}

		switch {
		case errors.Is(err, service.ErrPaymentDeclined):
			response.PaymentDeclinedError(c, err.Error())
		case errors.Is(err, service.ErrGatewayUnavailable):
			response.GatewayError(c, "")
		case errors.Is(err, service.ErrCampaignNotOpen):
			response.Error(c, response.CodeCampaignNotOpen, "")
		case errors.Is(err, service.ErrCampaignNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "捐赠成功", resp)
}

// CreateIntent 创建支付意向（异步结算）
// POST /api/v1/donations/intent
func (h *DonationHandler) CreateIntent(c *gin.Context) {
	var req dto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.donationService.CreateIntent(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGatewayUnavailable):
			response.GatewayError(c, "")
		case errors.Is(err, service.ErrCampaignNotOpen):
			response.Error(c, response.CodeCampaignNotOpen, "")
		case errors.Is(err, service.ErrCampaignNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}
