package main

import (
	"github.com/gin-gonic/gin"

	"github.com/multistore/backend/internal/interfaces/http/handler"
	"github.com/multistore/backend/internal/interfaces/http/middleware"
	"github.com/multistore/backend/internal/interfaces/http/router"
)

// publicAuthRoutes covers token lifecycle and platform login. None of these
// depend on a resolved store; the refresh and reset tokens identify the
// account on their own.
func publicAuthRoutes(h *handler.AuthHandler, authLimit gin.HandlerFunc) *router.DomainGroup {
	return router.NewDomainGroup("auth", "/auth").
		POST("/refresh", h.Refresh).
		POST("/logout", h.Logout).
		POST("/reset-password", authLimit, h.ResetPassword).
		POST("/verify-email", h.VerifyEmail).
		POST("/platform/login", authLimit, h.PlatformLogin)
}

// signupRoutes exposes self-service store registration.
func signupRoutes(h *handler.StoreHandler) *router.DomainGroup {
	return router.NewDomainGroup("signup", "/stores").
		POST("/register", h.Register)
}

// trackingRoutes serves order lookups by public tracking token.
func trackingRoutes(h *handler.StorefrontHandler) *router.DomainGroup {
	return router.NewDomainGroup("tracking", "/orders").
		GET("/track/:token", h.Track)
}

func storefrontAuthRoutes(h *handler.AuthHandler, authLimit gin.HandlerFunc) *router.DomainGroup {
	return router.NewDomainGroup("auth", "/auth").
		POST("/login", authLimit, h.Login).
		POST("/forgot-password", authLimit, h.ForgotPassword)
}

func storefrontCatalogRoutes(products *handler.ProductHandler, categories *handler.CategoryHandler) *router.DomainGroup {
	dg := router.NewDomainGroup("catalog", "")

	dg.Group("products", "/products").
		GET("", products.List).
		GET("/featured", products.ListFeatured).
		GET("/:slug", products.GetBySlug)

	dg.Group("categories", "/categories").
		GET("", categories.List).
		GET("/tree", categories.Tree).
		GET("/:slug", categories.GetBySlug)

	return dg
}

func storefrontContentRoutes(h *handler.ContentHandler) *router.DomainGroup {
	return router.NewDomainGroup("content", "").
		GET("/blogs", h.ListPublishedBlogs).
		GET("/blogs/featured", h.ListFeaturedBlogs).
		GET("/blogs/:slug", h.GetPublishedBlog).
		GET("/policies", h.ListPublishedPolicies).
		GET("/policies/:type", h.GetPublishedPolicy).
		GET("/heroes", h.ListActiveHeroes).
		GET("/contact", h.GetContact)
}

func storefrontCheckoutRoutes(sf *handler.StorefrontHandler, payments *handler.PaymentHandler, webhooks *handler.PaymentWebhookHandler) *router.DomainGroup {
	dg := router.NewDomainGroup("checkout", "").
		POST("/checkout", sf.Checkout)

	dg.Group("payments", "/payments").
		GET("/available", payments.ListAvailable).
		POST("", payments.CreatePayment).
		POST("/verify", payments.VerifyPayment).
		POST("/webhook/:gateway", webhooks.Handle)

	return dg
}

func accountRoutes(h *handler.AuthHandler) *router.DomainGroup {
	return router.NewDomainGroup("account", "").
		GET("/me", h.Me).
		POST("/change-password", h.ChangePassword).
		POST("/request-verification", h.RequestEmailVerification)
}

func catalogRoutes(products *handler.ProductHandler, categories *handler.CategoryHandler) *router.DomainGroup {
	dg := router.NewDomainGroup("catalog", "")

	dg.Group("products", "/products").
		POST("", products.Create).
		GET("", products.List).
		GET("/featured", products.ListFeatured).
		GET("/low-stock", products.ListLowStock).
		POST("/bulk", products.BulkUpdate).
		GET("/slug/:slug", products.GetBySlug).
		GET("/:id", products.GetByID).
		PUT("/:id", products.Update).
		PUT("/:id/inventory", products.UpdateInventory).
		PUT("/:id/variants", products.SetVariants).
		PUT("/:id/images", products.SetImages).
		PUT("/:id/seo", products.SetSEO).
		PUT("/:id/shipping", products.SetShipping).
		PUT("/:id/featured", products.SetFeatured).
		POST("/:id/publish", products.Publish).
		POST("/:id/unpublish", products.Unpublish).
		POST("/:id/archive", products.Archive).
		DELETE("/:id", products.Delete)

	dg.Group("categories", "/categories").
		POST("", categories.Create).
		GET("", categories.List).
		GET("/tree", categories.Tree).
		GET("/slug/:slug", categories.GetBySlug).
		GET("/:id", categories.GetByID).
		PUT("/:id", categories.Update).
		POST("/:id/activate", categories.Activate).
		POST("/:id/deactivate", categories.Deactivate).
		DELETE("/:id", categories.Delete)

	return dg
}

func customerRoutes(customers *handler.CustomerHandler, orders *handler.OrderHandler) *router.DomainGroup {
	return router.NewDomainGroup("customers", "/customers").
		POST("", customers.Create).
		GET("", customers.List).
		GET("/:id", customers.GetByID).
		PUT("/:id", customers.Update).
		GET("/:id/orders", orders.ListByCustomer).
		POST("/:id/addresses", customers.AddAddress).
		DELETE("/:id/addresses/:address_id", customers.RemoveAddress).
		POST("/:id/activate", customers.Activate).
		POST("/:id/deactivate", customers.Deactivate).
		DELETE("/:id", customers.Delete)
}

func orderRoutes(h *handler.OrderHandler) *router.DomainGroup {
	return router.NewDomainGroup("orders", "/orders").
		GET("", h.List).
		GET("/number/:number", h.GetByOrderNumber).
		GET("/:id", h.GetByID).
		POST("/:id/confirm", h.Confirm).
		POST("/:id/processing", h.StartProcessing).
		POST("/:id/delivered", h.MarkDelivered).
		POST("/:id/retry-payment", h.RetryPayment).
		POST("/:id/ship", h.Ship).
		POST("/:id/cancel", h.Cancel).
		POST("/:id/refund", h.Refund).
		PUT("/:id/notes", h.UpdateNotes)
}

func paymentAdminRoutes(h *handler.PaymentHandler) *router.DomainGroup {
	dg := router.NewDomainGroup("payments", "/payments")

	dg.Group("gateways", "/gateways").
		POST("", h.ConfigureGateway).
		GET("", h.ListGateways).
		PUT("/:gateway", h.UpdateGateway).
		POST("/:gateway/enable", h.EnableGateway).
		POST("/:gateway/disable", h.DisableGateway).
		POST("/:gateway/test", h.TestGateway).
		DELETE("/:gateway", h.DeleteGateway)

	dg.POST("/orders/:id/refund", h.RefundPayment)

	return dg
}

func shippingAdminRoutes(h *handler.ShippingHandler) *router.DomainGroup {
	dg := router.NewDomainGroup("shipping", "/shipping")

	dg.Group("partners", "/partners").
		POST("", h.ConfigurePartner).
		GET("", h.ListPartners).
		PUT("/:partner", h.UpdatePartner).
		POST("/:partner/activate", h.ActivatePartner).
		POST("/:partner/deactivate", h.DeactivatePartner).
		POST("/:partner/test", h.TestPartner).
		DELETE("/:partner", h.DeletePartner)

	dg.POST("/rates", h.GetRates).
		GET("/serviceability", h.CheckServiceability)

	dg.Group("shipments", "/orders").
		POST("/:id/shipment", h.CreateShipment).
		GET("/:id/shipment/track", h.TrackShipment).
		DELETE("/:id/shipment", h.CancelShipment)

	return dg
}

func contentAdminRoutes(h *handler.ContentHandler) *router.DomainGroup {
	dg := router.NewDomainGroup("content", "")

	dg.Group("blogs", "/blogs").
		POST("", h.CreateBlog).
		GET("", h.ListBlogs).
		GET("/:id", h.GetBlog).
		PUT("/:id", h.UpdateBlog).
		POST("/:id/publish", h.PublishBlog).
		POST("/:id/unpublish", h.UnpublishBlog).
		POST("/:id/archive", h.ArchiveBlog).
		DELETE("/:id", h.DeleteBlog)

	dg.Group("policies", "/policies").
		GET("", h.ListPolicies).
		GET("/:type", h.GetPolicy).
		PUT("/:type", h.UpsertPolicy).
		POST("/:type/publish", h.PublishPolicy).
		POST("/:type/unpublish", h.UnpublishPolicy).
		DELETE("/:type", h.DeletePolicy)

	dg.Group("heroes", "/heroes").
		POST("", h.CreateHero).
		GET("", h.ListHeroes).
		PUT("/reorder", h.ReorderHeroes).
		PUT("/:id", h.UpdateHero).
		DELETE("/:id", h.DeleteHero)

	dg.Group("contact", "/contact").
		GET("", h.GetContact).
		PUT("", h.UpsertContact).
		DELETE("", h.DeleteContact)

	return dg
}

func reportRoutes(h *handler.ReportHandler) *router.DomainGroup {
	return router.NewDomainGroup("reports", "/reports").
		GET("/dashboard", h.Dashboard).
		GET("/sales/summary", h.SalesSummary).
		GET("/sales/daily", h.DailyTrend).
		GET("/sales/top-products", h.TopProducts).
		GET("/sales/top-customers", h.TopCustomers).
		GET("/sales/status-breakdown", h.StatusBreakdown)
}

func mediaRoutes(h *handler.MediaHandler) *router.DomainGroup {
	return router.NewDomainGroup("media", "/media").
		POST("/upload", h.Upload).
		GET("/download-url", h.DownloadURL).
		DELETE("", h.Delete)
}

// staffRoutes requires the store management role on top of the admin scope.
func staffRoutes(h *handler.StaffHandler) *router.DomainGroup {
	return router.NewDomainGroup("staff", "/staff").
		Use(middleware.RequireStoreManagement()).
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		POST("/:id/activate", h.Activate).
		POST("/:id/deactivate", h.Deactivate).
		DELETE("/:id", h.Delete)
}

// storeSelfRoutes lets a store manage its own profile and settings.
func storeSelfRoutes(h *handler.StoreHandler) *router.DomainGroup {
	return router.NewDomainGroup("store", "/store").
		GET("", h.GetCurrent).
		PUT("", h.UpdateCurrent).
		PUT("/business-info", h.SetBusinessInfo).
		PUT("/maintenance-mode", h.SetMaintenanceMode).
		POST("/setup-complete", h.MarkSetupComplete).
		GET("/settings", h.GetSettings).
		PUT("/settings", h.UpdateSettings).
		GET("/stats", h.Stats)
}

// platformStoreRoutes covers lifecycle operations reserved for platform
// administrators.
func platformStoreRoutes(h *handler.StoreHandler) *router.DomainGroup {
	return router.NewDomainGroup("stores", "/stores").
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		PUT("/:id/plan", h.ChangePlan).
		POST("/:id/suspend", h.Suspend).
		POST("/:id/reactivate", h.Reactivate).
		POST("/:id/cancel", h.Cancel)
}
