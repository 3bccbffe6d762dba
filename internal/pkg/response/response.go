package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess              = 0
	CodeParamError           = 1000
	CodeAuthFailed           = 1001
	CodePermissionDenied     = 1002
	CodeResourceNotFound     = 1003
	CodePaymentDeclined      = 2001
	CodeGatewayUnavailable   = 2002
	CodeSettlementIncomplete = 2003
	CodeCampaignNotOpen      = 2004
	CodeServerError          = 5000
)

// 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:              "success",
	CodeParamError:           "参数错误",
	CodeAuthFailed:           "认证失败",
	CodePermissionDenied:     "权限不足",
	CodeResourceNotFound:     "资源不存在",
	CodePaymentDeclined:      "支付被拒绝",
	CodeGatewayUnavailable:   "支付网关暂不可用",
	CodeSettlementIncomplete: "支付已完成但入账失败，请联系客服",
	CodeCampaignNotOpen:      "活动不在进行中",
	CodeServerError:          "服务器内部错误",
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageData 分页数据结构
type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessPage 分页成功响应
func SuccessPage(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// PaymentDeclinedError 支付被拒绝（终态，用户可见，不重试）
func PaymentDeclinedError(c *gin.Context, message string) {
	Error(c, CodePaymentDeclined, message)
}

// GatewayError 支付网关不可用（可由调用方重试）
func GatewayError(c *gin.Context, message string) {
	Error(c, CodeGatewayUnavailable, message)
}

// SettlementError 已扣款但入账失败，响应携带 charge id 供对账
func SettlementError(c *gin.Context, chargeID string) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSettlementIncomplete,
		Message: codeMessages[CodeSettlementIncomplete],
		Data:    gin.H{"charge_id": chargeID},
	})
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
