package main

import (
	"github.com/gin-gonic/gin"

	"agro-market.backend/internal/interfaces/http/handlers"
	"agro-market.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	catalogHandler    *handlers.CatalogHandler
	favoriteHandler   *handlers.FavoriteHandler
	listingHandler    *handlers.ListingHandler
	orderHandler      *handlers.OrderHandler
	paymentHandler    *handlers.PaymentHandler
	ratingHandler     *handlers.RatingHandler
	commentHandler    *handlers.CommentHandler
	membershipHandler *handlers.MembershipHandler
	authMiddleware    gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	requireAuth := d.authMiddleware
	adminOnly := middleware.RequireAdmin()

	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/forgot-password", d.authHandler.ForgotPassword)
			auth.POST("/reset-password", d.authHandler.ResetPassword)
			auth.POST("/verify-reset-token", d.authHandler.VerifyResetToken)
			auth.GET("/me", requireAuth, d.authHandler.GetMe)
			auth.PUT("/me", requireAuth, d.authHandler.UpdateMe)
			auth.POST("/change-password", requireAuth, d.authHandler.ChangePassword)
			auth.POST("/logout", requireAuth, d.authHandler.Logout)
		}

		users := v1.Group("/users")
		users.Use(requireAuth, adminOnly)
		{
			users.GET("", d.userHandler.List)
			users.PATCH("/:id/disable", d.userHandler.Disable)
			users.PATCH("/:id/verify", d.userHandler.Verify)
		}

		// Catalog routes (public read, admin write)
		categories := v1.Group("/categories")
		{
			categories.GET("", d.catalogHandler.ListCategories)
			categories.POST("", requireAuth, adminOnly, d.catalogHandler.CreateCategory)
		}

		products := v1.Group("/products")
		{
			products.GET("", d.catalogHandler.ListProducts)
			products.GET("/:id", d.catalogHandler.GetProduct)
			products.POST("", requireAuth, adminOnly, d.catalogHandler.CreateProduct)
			products.PUT("/:id", requireAuth, adminOnly, d.catalogHandler.UpdateProduct)
			products.DELETE("/:id", requireAuth, adminOnly, d.catalogHandler.DeactivateProduct)
		}

		// Favorites are per user except the public popularity ranking.
		favorites := v1.Group("/favorites")
		{
			favorites.GET("/popular", d.favoriteHandler.Popular)
			favorites.GET("", requireAuth, d.favoriteHandler.List)
			favorites.GET("/check", requireAuth, d.favoriteHandler.Check)
			favorites.GET("/stats", requireAuth, d.favoriteHandler.Stats)
			favorites.POST("", requireAuth, d.favoriteHandler.Add)
			favorites.DELETE("/:productId", requireAuth, d.favoriteHandler.Remove)
		}

		// Listing routes
		listings := v1.Group("/listings")
		{
			listings.GET("", d.listingHandler.List)
			listings.GET("/mine", requireAuth, d.listingHandler.ListMine)
			listings.GET("/:id", d.listingHandler.Get)
			listings.POST("", requireAuth, d.listingHandler.Create)
			listings.PATCH("/:id/status", requireAuth, d.listingHandler.UpdateStatus)
			listings.POST("/:id/report", requireAuth, d.listingHandler.Report)
			listings.PATCH("/:id/moderate", requireAuth, adminOnly, d.listingHandler.Moderate)
		}

		// Order routes (protected)
		orders := v1.Group("/orders")
		orders.Use(requireAuth)
		{
			orders.POST("", middleware.IdempotencyMiddleware(), d.orderHandler.CreateOrder)
			orders.GET("", adminOnly, d.orderHandler.ListOrders)
			orders.GET("/user/:userId", d.orderHandler.ListUserOrders)
			orders.GET("/:id", d.orderHandler.GetOrder)
			orders.PUT("/:id/status", d.orderHandler.UpdateStatus)
			orders.PATCH("/:id/cancel", d.orderHandler.Cancel)
			orders.PATCH("/:id/verify", adminOnly, d.orderHandler.Verify)
		}

		// QR payment routes. Lookup by code is public so payers can scan.
		payments := v1.Group("/payments-qr")
		{
			payments.GET("/code/:code", d.paymentHandler.GetIntentByCode)
			payments.POST("", requireAuth, middleware.IdempotencyMiddleware(), d.paymentHandler.CreateIntent)
			payments.GET("", requireAuth, adminOnly, d.paymentHandler.ListIntents)
			payments.GET("/order/:orderId", requireAuth, d.paymentHandler.ListOrderIntents)
			payments.GET("/:id", requireAuth, d.paymentHandler.GetIntent)
			payments.PUT("/:id/confirm", requireAuth, middleware.IdempotencyMiddleware(), d.paymentHandler.Confirm)
			payments.DELETE("/:id", requireAuth, d.paymentHandler.Cancel)
		}

		// Reputation routes
		ratings := v1.Group("/ratings")
		{
			ratings.GET("/user/:userId", d.ratingHandler.GetUserReputation)
			ratings.GET("/ranking", d.ratingHandler.Ranking)
			ratings.GET("/given/:userId", requireAuth, d.ratingHandler.ListGiven)
			ratings.GET("/stats", requireAuth, adminOnly, d.ratingHandler.Stats)
			ratings.POST("", requireAuth, d.ratingHandler.Submit)
			ratings.PUT("/:id", requireAuth, d.ratingHandler.Update)
			ratings.DELETE("/:id", requireAuth, d.ratingHandler.Delete)
		}

		// Comment routes
		comments := v1.Group("/comments")
		{
			comments.GET("/product/:productId", d.commentHandler.ListByProduct)
			comments.GET("/listing/:listingId", d.commentHandler.ListByListing)
			comments.GET("/user/:userId", requireAuth, d.commentHandler.ListByUser)
			comments.GET("/stats", requireAuth, adminOnly, d.commentHandler.Stats)
			comments.GET("", requireAuth, adminOnly, d.commentHandler.ListAll)
			comments.POST("", requireAuth, d.commentHandler.Create)
			comments.PUT("/:id", requireAuth, d.commentHandler.Update)
			comments.DELETE("/:id", requireAuth, d.commentHandler.Delete)
		}

		// Membership routes
		memberships := v1.Group("/memberships")
		{
			memberships.GET("", d.membershipHandler.List)
			memberships.GET("/stats", requireAuth, adminOnly, d.membershipHandler.Stats)
			memberships.GET("/me/active", requireAuth, d.membershipHandler.GetActive)
			memberships.GET("/me/history", requireAuth, d.membershipHandler.History)
			memberships.PUT("/me/cancel", requireAuth, d.membershipHandler.Cancel)
			memberships.POST("/assign", requireAuth, d.membershipHandler.Assign)
			memberships.PUT("/renew/:id", requireAuth, d.membershipHandler.Renew)
			memberships.GET("/:id", d.membershipHandler.Get)
			memberships.POST("", requireAuth, adminOnly, d.membershipHandler.Create)
			memberships.PUT("/:id", requireAuth, adminOnly, d.membershipHandler.Update)
			memberships.DELETE("/:id", requireAuth, adminOnly, d.membershipHandler.Delete)
		}
	}
}
