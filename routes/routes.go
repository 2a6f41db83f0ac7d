package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tambaqui-prime/controllers"
	"tambaqui-prime/middleware"
	"tambaqui-prime/services"
)

func SetupRoutes(router *gin.Engine, state *services.AppState, messages *services.MessageService) {
	authCtrl := controllers.NewAuthController(state)
	productCtrl := controllers.NewProductController(state)
	coverCtrl := controllers.NewCoverController(state)
	cartCtrl := controllers.NewCartController(state)
	orderCtrl := controllers.NewOrderController(state, messages)
	syncCtrl := controllers.NewSyncController(state)
	uploadCtrl := controllers.NewUploadController()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", syncCtrl.Health)

	router.POST("/auth/login", authCtrl.Login)
	router.GET("/auth/remembered", authCtrl.GetRemembered)

	router.GET("/products", productCtrl.GetAllProducts)
	router.GET("/products/:id", productCtrl.GetProductByID)
	router.GET("/cover", coverCtrl.GetCover)

	router.POST("/carts", cartCtrl.CreateCart)
	router.GET("/carts/:id", cartCtrl.GetCart)
	router.POST("/carts/:id/items", cartCtrl.AddItem)
	router.DELETE("/carts/:id/items/:itemId", cartCtrl.RemoveItem)
	router.DELETE("/carts/:id/items", cartCtrl.ClearCart)

	router.POST("/orders", orderCtrl.Checkout)
	router.GET("/orders/:id", orderCtrl.GetOrderByID)
	router.GET("/orders/:id/whatsapp", orderCtrl.GetWhatsAppMessage)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/auth/logout", authCtrl.Logout)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.PATCH("/products/:id", productCtrl.UpdateProduct)
		admin.POST("/products/:id/images", productCtrl.AddProductImage)
		admin.DELETE("/products/:id/images/:index", productCtrl.RemoveProductImage)

		admin.PUT("/cover", coverCtrl.SetCover)
		admin.POST("/admins", authCtrl.CreateAdmin)
		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.POST("/sync", syncCtrl.SyncNow)
		admin.POST("/uploads", uploadCtrl.UploadImage)
	}

	router.Static("/uploads", "./uploads")
}
