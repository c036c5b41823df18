package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contesthub/internal/api"
	apiMiddleware "contesthub/internal/api/middleware"
	"contesthub/internal/app/service"
	"contesthub/internal/common/security"
	"contesthub/internal/domain/repository"
	"contesthub/internal/platform/cache"
	"contesthub/internal/platform/config"
	"contesthub/internal/platform/database"
	"contesthub/internal/platform/payment"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	contestRepo := repository.NewPgContestRepository(database.DB)
	paymentRepo := repository.NewPgPaymentRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)

	// 6. Initialize Payment Provider & Role Cache
	provider := payment.NewStripeProvider(
		config.AppConfig.StripeSecretKey,
		config.AppConfig.CheckoutSuccessURL,
		config.AppConfig.CheckoutCancelURL,
	)
	roleCache := cache.NewRoleCache(cache.RDB, config.AppConfig.RoleCacheTTL)

	// 7. Initialize Services
	authService := service.NewAuthService()
	userService := service.NewUserService(userRepo, roleCache)
	contestService := service.NewContestService(contestRepo, userRepo, submissionRepo)
	paymentService := service.NewPaymentService(paymentRepo, contestRepo, provider)
	submissionService := service.NewSubmissionService(submissionRepo, contestRepo, paymentRepo, userRepo)
	leaderboardService := service.NewLeaderboardService(contestRepo)

	// 8. Initialize Router & HTTP Server
	roleChecker := apiMiddleware.NewRoleChecker(userRepo, roleCache)
	router := api.NewRouter(
		authService,
		userService,
		contestService,
		paymentService,
		submissionService,
		leaderboardService,
		roleChecker,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("ContestHub Server is running on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
