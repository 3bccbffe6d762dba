package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
	"github.com/projectreach/reach_go_server/internal/service"
)

type DonorHandler struct {
	donorService    *service.DonorService
	donationService *service.DonationService
}

func NewDonorHandler(donorService *service.DonorService, donationService *service.DonationService) *DonorHandler {
	return &DonorHandler{
		donorService:    donorService,
		donationService: donationService,
	}
}

func donorID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的捐赠人ID")
		return 0, false
	}
	return id, true
}

// List 捐赠人列表
// GET /api/v1/donors
func (h *DonorHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.donorService.List((page-1)*pageSize, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 捐赠人详情
// GET /api/v1/donors/:id
func (h *DonorHandler) Get(c *gin.Context) {
	id, ok := donorID(c)
	if !ok {
		return
	}

	donor, err := h.donorService.Get(id)
	if err != nil {
		switch err {
		case service.ErrDonorNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, donor)
}

// Summary 捐赠人汇总
// GET /api/v1/donors/:id/summary
func (h *DonorHandler) Summary(c *gin.Context) {
	id, ok := donorID(c)
	if !ok {
		return
	}

	summary, err := h.donorService.Summary(id)
	if err != nil {
		switch err {
		case service.ErrDonorNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, summary)
}

// Donations 捐赠人的捐赠记录
// GET /api/v1/donors/:id/donations
func (h *DonorHandler) Donations(c *gin.Context) {
	id, ok := donorID(c)
	if !ok {
		return
	}

	if _, err := h.donorService.Get(id); err != nil {
		switch err {
		case service.ErrDonorNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	donations, err := h.donationService.ListByDonor(id)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, donations)
}

// Update 更新捐赠人资料
// PUT /api/v1/donors/:id
func (h *DonorHandler) Update(c *gin.Context) {
	id, ok := donorID(c)
	if !ok {
		return
	}

	var req dto.UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	donor, err := h.donorService.Update(id, &req)
	if err != nil {
		switch err {
		case service.ErrDonorNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, donor)
}
