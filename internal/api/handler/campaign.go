package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
	"github.com/projectreach/reach_go_server/internal/service"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
}

func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

func campaignID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的活动ID")
		return 0, false
	}
	return id, true
}

// List 活动列表
// GET /api/v1/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.campaignService.List((page-1)*pageSize, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 活动详情
// GET /api/v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	campaign, err := h.campaignService.Get(id)
	if err != nil {
		switch err {
		case service.ErrCampaignNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, campaign)
}

// Progress 活动进度
// GET /api/v1/campaigns/:id/progress
func (h *CampaignHandler) Progress(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	progress, err := h.campaignService.Progress(id)
	if err != nil {
		switch err {
		case service.ErrCampaignNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, progress)
}

// Donations 活动捐赠列表
// GET /api/v1/campaigns/:id/donations
func (h *CampaignHandler) Donations(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	donations, err := h.campaignService.Donations(id)
	if err != nil {
		switch err {
		case service.ErrCampaignNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, donations)
}

// Create 创建活动
// POST /api/v1/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	campaign, err := h.campaignService.Create(&req)
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "活动创建成功", campaign)
}

// Update 更新活动
// PUT /api/v1/campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	campaign, err := h.campaignService.Update(id, &req)
	if err != nil {
		switch err {
		case service.ErrCampaignNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrCampaignFinalized, service.ErrInvalidStatus:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, campaign)
}

// Delete 删除活动
// DELETE /api/v1/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	if err := h.campaignService.Delete(id); err != nil {
		switch err {
		case service.ErrCampaignNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "活动已删除", nil)
}
