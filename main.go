package main

import (
	"fmt"
	"log"
	"os"

	"rentroll-server/routes"
	"rentroll-server/storage"
	"rentroll-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Get("/me", accessTokenVerifierMiddleware, routes.Me)
	}

	properties := app.Party("/api/properties", accessTokenVerifierMiddleware)
	{
		properties.Get("/", routes.GetProperties)
		properties.Post("/", routes.CreateProperty)
		properties.Get("/{id:uint}", routes.GetProperty)
		properties.Put("/{id:uint}", routes.UpdateProperty)
		properties.Delete("/{id:uint}", routes.DeleteProperty)
	}

	tenants := app.Party("/api/tenants", accessTokenVerifierMiddleware)
	{
		tenants.Get("/", routes.GetTenants)
		tenants.Post("/", routes.CreateTenant)
		tenants.Get("/{id:uint}", routes.GetTenant)
		tenants.Put("/{id:uint}", routes.UpdateTenant)
		tenants.Delete("/{id:uint}", routes.DeleteTenant)
	}

	payments := app.Party("/api/payments", accessTokenVerifierMiddleware)
	{
		payments.Get("/", routes.GetPayments)
		payments.Post("/", routes.CreatePayment)
		payments.Post("/bulk", routes.BulkGeneratePayments)
		payments.Get("/{id:uint}", routes.GetPayment)
		payments.Put("/{id:uint}", routes.UpdatePayment)
		payments.Delete("/{id:uint}", routes.DeletePayment)
	}

	dashboard := app.Party("/api/dashboard", accessTokenVerifierMiddleware)
	{
		dashboard.Get("/stats", routes.GetDashboardStats)
		dashboard.Get("/revenue", routes.GetRevenueAnalytics)
	}

	upload := app.Party("/api/upload", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		upload.Post("/image", routes.UploadImage)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
