package api

import (
	"github.com/gin-gonic/gin"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/api/handler"
	"github.com/projectreach/reach_go_server/internal/api/middleware"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
)

type Router struct {
	authHandler      *handler.AuthHandler
	campaignHandler  *handler.CampaignHandler
	donorHandler     *handler.DonorHandler
	donationHandler  *handler.DonationHandler
	paymentHandler   *handler.PaymentHandler
	webhookHandler   *handler.WebhookHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	campaignHandler *handler.CampaignHandler,
	donorHandler *handler.DonorHandler,
	donationHandler *handler.DonationHandler,
	paymentHandler *handler.PaymentHandler,
	webhookHandler *handler.WebhookHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		campaignHandler:  campaignHandler,
		donorHandler:     donorHandler,
		donationHandler:  donationHandler,
		paymentHandler:   paymentHandler,
		webhookHandler:   webhookHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			response.Success(c, gin.H{"status": "ok"})
		})

		// WebSocket 活动进度推送
		api.GET("/ws", r.websocketHandler.Handle)

		// 管理端登录
		api.POST("/auth/login", r.authHandler.Login)

		// 公开接口 - 活动
		campaigns := api.Group("/campaigns")
		{
			campaigns.GET("", r.campaignHandler.List)
			campaigns.GET("/:id", r.campaignHandler.Get)
			campaigns.GET("/:id/progress", r.campaignHandler.Progress)
			campaigns.GET("/:id/donations", r.campaignHandler.Donations)
		}

		// 公开接口 - 捐赠与订阅
		api.POST("/donations", r.donationHandler.Donate)
		api.POST("/donations/intent", r.donationHandler.CreateIntent)

		payment := api.Group("/payment")
		{
			payment.GET("/plans", r.paymentHandler.Plans)
			payment.POST("/subscriptions", r.paymentHandler.CreateSubscription)
			payment.GET("/subscriptions/:id", r.paymentHandler.SubscriptionStatus)
			payment.POST("/subscriptions/:id/cancel", r.paymentHandler.CancelSubscription)
		}

		// 网关回调
		api.POST("/webhook", r.webhookHandler.Handle)

		// 管理端接口
		admin := api.Group("")
		admin.Use(middleware.AdminAuth(r.cfg.JWT.Secret))
		{
			admin.POST("/campaigns", r.campaignHandler.Create)
			admin.PUT("/campaigns/:id", r.campaignHandler.Update)
			admin.DELETE("/campaigns/:id", r.campaignHandler.Delete)

			donors := admin.Group("/donors")
			{
				donors.GET("", r.donorHandler.List)
				donors.GET("/:id", r.donorHandler.Get)
				donors.GET("/:id/summary", r.donorHandler.Summary)
				donors.GET("/:id/donations", r.donorHandler.Donations)
				donors.PUT("/:id", r.donorHandler.Update)
			}

			admin.GET("/payment/subscriptions", r.paymentHandler.ActiveSubscriptions)
			admin.GET("/payment/stats", r.paymentHandler.Stats)
		}
	}

	return engine
}
