package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nkswalih/e-commerce-sub000/internal/handlers"
	"github.com/nkswalih/e-commerce-sub000/internal/middleware"
	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
	"github.com/nkswalih/e-commerce-sub000/internal/resourcestore"
	"github.com/nkswalih/e-commerce-sub000/internal/services"
	"github.com/nkswalih/e-commerce-sub000/pkg/rabbitmq"
)

// repoSet bundles the three repositories a backend provides.
type repoSet struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	orders   repositories.OrderRepository
}

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("DATA_BACKEND", "memory") // memory | postgres | rest
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=store port=5432 sslmode=disable")
	viper.SetDefault("RESOURCE_STORE_URL", "http://localhost:3000")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")

	// --- Repositories ---
	repos, err := buildRepositories(viper.GetString("DATA_BACKEND"))
	if err != nil {
		log.Fatalf("Failed to initialize data backend: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Services ---
	authService := services.NewAuthService(repos.users, jwtSecret)
	userService := services.NewUserService(repos.users)
	productService := services.NewProductService(repos.products)
	cartService := services.NewCartService(repos.users, repos.products)
	checkoutService := services.NewCheckoutService(repos.users, repos.products, repos.orders, events)
	orderService := services.NewOrderService(repos.orders, repos.users, events)
	analyticsService := services.NewAnalyticsService(repos.users, repos.products, repos.orders)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(checkoutService, orderService)
	adminHandler := handlers.NewAdminHandler(userService, orderService, analyticsService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	// Authenticated routes
	authed := apiV1.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(authed)
	orderHandler.RegisterRoutes(authed)

	// Back-office routes
	admin := authed.Group("/admin", middleware.AdminRequired())
	adminHandler.RegisterRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			handler := func(msg amqp.Delivery) error {
				log.Printf("Received %s event (tag %d): %s", msg.Type, msg.DeliveryTag, msg.Body)
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(handler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// buildRepositories wires the repository set for the configured backend.
func buildRepositories(backend string) (*repoSet, error) {
	switch backend {
	case "postgres":
		db, err := gorm.Open(postgres.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}); err != nil {
			return nil, err
		}
		return &repoSet{
			users:    repositories.NewGORMUserRepository(db),
			products: repositories.NewGORMProductRepository(db),
			orders:   repositories.NewGORMOrderRepository(db),
		}, nil

	case "rest":
		store := resourcestore.New(viper.GetString("RESOURCE_STORE_URL"), 10*time.Second)
		return &repoSet{
			users:    repositories.NewRESTUserRepository(store),
			products: repositories.NewRESTProductRepository(store),
			orders:   repositories.NewRESTOrderRepository(store),
		}, nil

	case "memory":
		productRepo := repositories.NewMockProductRepository()
		seedProducts(productRepo)
		return &repoSet{
			users:    repositories.NewMockUserRepository(),
			products: productRepo,
			orders:   repositories.NewMockOrderRepository(),
		}, nil
	}
	log.Fatalf("Unknown DATA_BACKEND %q (want memory, postgres or rest)", backend)
	return nil, nil
}

// seedProducts populates the in-memory product repository with demo data.
func seedProducts(repo repositories.ProductRepository) {
	products := []models.Product{
		{
			Name: "Galaxy S24", Brand: "Samsung", Category: "phones",
			Price: 79999, Stock: 10,
			Options: map[string][]string{"storage": {"128GB", "256GB"}, "ram": {"8GB"}},
		},
		{
			Name: "ThinkPad X1 Carbon", Brand: "Lenovo", Category: "laptops",
			Price: 145000, Stock: 5,
			Options: map[string][]string{"ram": {"16GB", "32GB"}},
		},
		{
			Name: "WH-1000XM5", Brand: "Sony", Category: "audio",
			Price: 29999, Stock: 25,
		},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
