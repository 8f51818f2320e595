package routes

import (
	"github.com/dglmedia/adops-backend/internal/config"
	"github.com/dglmedia/adops-backend/internal/handlers"
	"github.com/dglmedia/adops-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	DeploymentHandler *handlers.DeploymentHandler
	AdHandler         *handlers.AdHandler
	MaterialHandler   *handlers.MaterialHandler
	PaymentHandler    *handlers.PaymentHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/register", deps.AuthHandler.Register)
		}

		// Settlement callbacks arrive from the payment provider, not from
		// authenticated admin clients.
		public.POST("/payments/webhook", deps.PaymentHandler.Webhook)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		deployments := protected.Group("/deployments")
		{
			deployments.POST("", deps.DeploymentHandler.CreateDeployment)
			deployments.GET("/active", deps.DeploymentHandler.GetActiveDeployments)
			deployments.GET("/:id", deps.DeploymentHandler.GetDeploymentByID)
			deployments.PATCH("/:id/status", deps.DeploymentHandler.UpdateDeploymentStatus)
			deployments.DELETE("/:id", deps.DeploymentHandler.DeleteDeployment)
			deployments.GET("/driver/:driverId", deps.DeploymentHandler.GetDeploymentsByDriver)
			deployments.GET("/ad/:adId", deps.DeploymentHandler.GetDeploymentsByAd)
			deployments.POST("/retry/:adId", deps.DeploymentHandler.RetryDeployment)

			material := deployments.Group("/material/:materialId")
			{
				material.GET("", deps.DeploymentHandler.GetDeploymentByMaterial)
				material.POST("/slots", deps.DeploymentHandler.AllocateSlot)
				material.PATCH("/slots/status", deps.DeploymentHandler.UpdateSlotStatus)
				material.POST("/remove-ads", deps.DeploymentHandler.RemoveAds)
				material.POST("/reassign-slots", deps.DeploymentHandler.ReassignSlots)
			}
		}

		ads := protected.Group("/ads")
		{
			ads.POST("", deps.AdHandler.CreateAd)
			ads.GET("/pending-deployment", deps.AdHandler.GetAdsPendingDeployment)
			ads.GET("/:id", deps.AdHandler.GetAdByID)
			ads.GET("/user/:userId", deps.AdHandler.GetAdsByUser)
			ads.POST("/:id/approve", deps.AdHandler.ApproveAd)
		}

		materials := protected.Group("/materials")
		{
			materials.POST("", deps.MaterialHandler.CreateMaterial)
			materials.GET("", deps.MaterialHandler.GetAllMaterials)
			materials.GET("/:materialId", deps.MaterialHandler.GetMaterialByID)
			materials.PATCH("/:materialId/driver", deps.MaterialHandler.AssignDriver)
		}

		payments := protected.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.CreatePayment)
			payments.GET("/:id", deps.PaymentHandler.GetPaymentByID)
			payments.GET("/ad/:adId", deps.PaymentHandler.GetPaymentsByAd)
		}
	}

	return router
}
