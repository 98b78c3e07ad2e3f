package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"modelflow/cmd/fx/account_fx"
	"modelflow/cmd/fx/catalog_fx"
	"modelflow/cmd/fx/chat_fx"
	"modelflow/cmd/fx/controllers_fx"
	"modelflow/cmd/fx/db_fx"
	"modelflow/cmd/fx/mail_fx"
	"modelflow/cmd/fx/plan_fx"
	"modelflow/cmd/fx/upgrade_fx"
	"modelflow/cmd/fx/usage_fx"
	"modelflow/internal/api/controllers"
	"modelflow/internal/plans"
	"modelflow/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		db_fx.Module,
		catalog_fx.Module,
		account_fx.Module,
		plan_fx.Module,
		usage_fx.Module,
		mail_fx.Module,
		upgrade_fx.Module,
		chat_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	catalog *plans.Catalog,
	accountController *controllers.AccountController,
	planController *controllers.PlanController,
	chatController *controllers.ChatController,
	upgradeController *controllers.UpgradeController,
	adminController *controllers.AdminController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, catalog, accountController, planController, chatController, upgradeController, adminController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	catalog *plans.Catalog,
	accountController *controllers.AccountController,
	planController *controllers.PlanController,
	chatController *controllers.ChatController,
	upgradeController *controllers.UpgradeController,
	adminController *controllers.AdminController) {

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", accountController.Register)
	accountGroup.POST("/login", accountController.Login)

	r.GET("/plans", planController.ListPlans)

	authed := r.Group("/")
	authed.Use(middleware.JWTAuthMiddleware())

	authed.GET("/accounts/me", accountController.Me)
	authed.GET("/plans/me", planController.MyPlan)
	authed.GET("/usage", planController.Usage)

	chatGroup := authed.Group("/chats")
	chatGroup.POST("", chatController.StartChat)
	chatGroup.GET("", chatController.ListChats)
	chatGroup.GET("/search", chatController.SearchMessages)
	chatGroup.GET("/:chatId", chatController.GetChat)
	chatGroup.POST("/:chatId/messages", chatController.SendMessage)

	upgradeGroup := authed.Group("/upgrade-requests")
	upgradeGroup.POST("", upgradeController.Submit)
	upgradeGroup.GET("/me", upgradeController.ListMine)

	adminGroup := authed.Group("/admin")
	adminGroup.Use(middleware.AdminMiddleware(catalog))
	adminGroup.GET("/upgrade-requests", adminController.ListRequests)
	adminGroup.POST("/upgrade-requests/:requestId/approve", adminController.Approve)
	adminGroup.POST("/upgrade-requests/:requestId/deny", adminController.Deny)
	adminGroup.POST("/users/:userId/revoke", adminController.Revoke)
}
