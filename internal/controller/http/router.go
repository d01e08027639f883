package http

import (
	"fanhouse/internal/entity"
	"fanhouse/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *AuthHandler
	Creator *CreatorHandler
	Content *ContentHandler
	Payment *PaymentHandler
	Admin   *AdminHandler
}

// RegisterRoutes mounts the API under api. authenticate must set the
// caller id and role on the context.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, authenticate gin.HandlerFunc) {
	creatorOnly := middleware.RequireRole(string(entity.RoleCreator))
	adminOnly := middleware.RequireRole(string(entity.RoleAdmin))

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", authenticate, h.Auth.Me)
	}

	creator := api.Group("/creator")
	{
		creator.POST("/apply", authenticate, h.Creator.Apply)
		creator.GET("", h.Creator.ListCreators)
		creator.GET("/me/profile", authenticate, creatorOnly, h.Creator.MyProfile)
		creator.GET("/me/verification", authenticate, creatorOnly, h.Creator.MyVerification)
		creator.GET("/:id", h.Creator.GetCreator)
	}

	content := api.Group("/content", authenticate)
	{
		content.POST("", creatorOnly, h.Content.CreatePost)
		content.GET("", h.Content.ListPosts)
		content.GET("/:id", h.Content.GetPost)
	}

	payment := api.Group("/payment")
	{
		payment.POST("/webhook", h.Payment.Webhook)
		payment.POST("/subscribe", authenticate, h.Payment.Subscribe)
		payment.POST("/unlock-ppv", authenticate, h.Payment.UnlockPPV)
		payment.POST("/confirm", authenticate, h.Payment.Confirm)
		payment.GET("/subscriptions", authenticate, h.Payment.ListSubscriptions)
	}

	admin := api.Group("/admin", authenticate, adminOnly)
	{
		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/creators", h.Admin.ListCreators)
		admin.POST("/creators/:id/approve", h.Admin.ApproveCreator)
		admin.POST("/creators/:id/reject", h.Admin.RejectCreator)
		admin.POST("/creators/:id/disable", h.Admin.DisableCreator)
		admin.POST("/posts/:id/disable", h.Admin.DisablePost)
		admin.GET("/transactions", h.Admin.Transactions)
	}
}
