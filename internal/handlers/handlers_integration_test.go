package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nkswalih/e-commerce-sub000/internal/handlers"
	"github.com/nkswalih/e-commerce-sub000/internal/middleware"
	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
	"github.com/nkswalih/e-commerce-sub000/internal/services"
)

// testEnv bundles the app with the repositories backing it so tests can
// seed data directly.
type testEnv struct {
	app      *fiber.App
	users    repositories.UserRepository
	products repositories.ProductRepository
	orders   repositories.OrderRepository
}

// setupApp wires the full route tree against an in-memory SQLite database,
// one database per test.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, "integration-test-secret")
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(userRepo, productRepo)
	checkoutService := services.NewCheckoutService(userRepo, productRepo, orderRepo, nil)
	orderService := services.NewOrderService(orderRepo, userRepo, nil)
	analyticsService := services.NewAnalyticsService(userRepo, productRepo, orderRepo)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(checkoutService, orderService)
	adminHandler := handlers.NewAdminHandler(userService, orderService, analyticsService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	authed := apiV1.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(authed)
	orderHandler.RegisterRoutes(authed)

	admin := authed.Group("/admin", middleware.AdminRequired())
	adminHandler.RegisterRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)

	return &testEnv{
		app:      app,
		users:    userRepo,
		products: productRepo,
		orders:   orderRepo,
	}
}

// doRequest performs a JSON request against the app and returns the
// response.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates a user through the public endpoints and returns
// a bearer token for them.
func registerAndLogin(t *testing.T, app *fiber.App, name, email, password string) string {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	return body.Token
}

func seedProduct(t *testing.T, env *testEnv, product models.Product) string {
	t.Helper()
	assert.NoError(t, env.products.Create(&product))
	return product.ID
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupApp(t)

	resp := doRequest(t, env.app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The created user is echoed back without any password material
	var reg struct {
		User map[string]interface{} `json:"user"`
	}
	decodeBody(t, resp, &reg)
	assert.Equal(t, "asha@example.com", reg.User["email"])
	assert.NotContains(t, reg.User, "password")

	// Registering the same email again conflicts
	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Asha Again",
		"email":    "asha@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong password is rejected without detail
	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "asha@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
}

func TestCartRequiresAuth(t *testing.T) {
	env := setupApp(t)

	resp := doRequest(t, env.app, http.MethodGet, "/api/v1/cart/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/checkout", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCartCheckoutAndCancelFlow(t *testing.T) {
	env := setupApp(t)
	productID := seedProduct(t, env, models.Product{
		Name: "Galaxy S24", Brand: "Samsung", Category: "phones",
		Price: 50000, Stock: 10,
	})
	token := registerAndLogin(t, env.app, "Ravi", "ravi@example.com", "secret123")

	// Two adds for the same product merge into one line
	resp := doRequest(t, env.app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": productID,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": productID,
		"quantity":   2,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cart struct {
		Items    []models.CartItem `json:"items"`
		Subtotal float64           `json:"subtotal"`
	}
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 150000.0, cart.Subtotal)

	// Checkout: subtotal clears the free-shipping threshold
	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"shipping": map[string]string{
			"name": "Ravi", "phone": "555-0101", "address": "1 Main St",
			"city": "Springfield", "state": "IL", "postal_code": "62701",
		},
		"payment_method": "card",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, 150000.0, order.Subtotal)
	assert.Equal(t, 0.0, order.ShippingFee)
	assert.Equal(t, 150000.0, order.Total)

	// Stock was decremented and the cart emptied
	resp = doRequest(t, env.app, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)
	assert.Equal(t, 7, product.Stock)

	resp = doRequest(t, env.app, http.MethodGet, "/api/v1/cart/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)

	// The order shows up in the user's history
	resp = doRequest(t, env.app, http.MethodGet, "/api/v1/orders/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// Owner cancels, and a second cancel conflicts
	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled models.Order
	decodeBody(t, resp, &cancelled)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutBelowFreeShippingThreshold(t *testing.T) {
	env := setupApp(t)
	productID := seedProduct(t, env, models.Product{
		Name: "WH-1000XM5", Brand: "Sony", Category: "audio",
		Price: 29999, Stock: 25,
	})
	token := registerAndLogin(t, env.app, "Mina", "mina@example.com", "secret123")

	resp := doRequest(t, env.app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": productID,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"shipping": map[string]string{
			"name": "Mina", "phone": "555-0102", "address": "2 Oak Ave",
			"city": "Springfield", "state": "IL", "postal_code": "62702",
		},
		"payment_method": "cod",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, 29999.0, order.Subtotal)
	assert.Equal(t, 99.0, order.ShippingFee)
	assert.Equal(t, 30098.0, order.Total)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	env := setupApp(t)
	productID := seedProduct(t, env, models.Product{
		Name: "ThinkPad X1 Carbon", Brand: "Lenovo", Category: "laptops",
		Price: 145000, Stock: 1,
	})
	token := registerAndLogin(t, env.app, "Jon", "jon@example.com", "secret123")

	resp := doRequest(t, env.app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": productID,
		"quantity":   2,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"shipping": map[string]string{
			"name": "Jon", "phone": "555-0103", "address": "3 Elm St",
			"city": "Springfield", "state": "IL", "postal_code": "62703",
		},
		"payment_method": "card",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		ProductID string `json:"product_id"`
		Requested int    `json:"requested"`
		Available int    `json:"available"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, productID, body.ProductID)
	assert.Equal(t, 2, body.Requested)
	assert.Equal(t, 1, body.Available)

	// Nothing was written
	product, err := env.products.GetByID(productID)
	assert.NoError(t, err)
	assert.Equal(t, 1, product.Stock)
}

func TestCheckoutRejectsIncompleteShipping(t *testing.T) {
	env := setupApp(t)
	productID := seedProduct(t, env, models.Product{
		Name: "Galaxy S24", Brand: "Samsung", Price: 50000, Stock: 5,
	})
	token := registerAndLogin(t, env.app, "Lena", "lena@example.com", "secret123")

	resp := doRequest(t, env.app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": productID,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"shipping":       map[string]string{"name": "Lena"},
		"payment_method": "card",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminRoutes(t *testing.T) {
	env := setupApp(t)
	productID := seedProduct(t, env, models.Product{
		Name: "Galaxy S24", Brand: "Samsung", Price: 50000, Stock: 5,
	})

	userToken := registerAndLogin(t, env.app, "Shopper", "shopper@example.com", "secret123")

	// A regular user is turned away from the back office
	resp := doRequest(t, env.app, http.MethodGet, "/api/v1/admin/dashboard", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Place an order to administer
	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/cart/items", userToken, map[string]interface{}{
		"product_id": productID,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/checkout", userToken, map[string]interface{}{
		"shipping": map[string]string{
			"name": "Shopper", "phone": "555-0104", "address": "4 Pine Rd",
			"city": "Springfield", "state": "IL", "postal_code": "62704",
		},
		"payment_method": "card",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	// Promote a second account to admin directly through the repository,
	// then log in so the token carries the admin role.
	registerAndLogin(t, env.app, "Root", "root@example.com", "secret123")
	adminUser, err := env.users.GetByEmail("root@example.com")
	assert.NoError(t, err)
	adminUser.Role = models.RoleAdmin
	assert.NoError(t, env.users.Update(adminUser))

	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "root@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	adminToken := login.Token

	// Dashboard aggregates reflect the seeded data
	resp = doRequest(t, env.app, http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stats services.DashboardStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, order.Total, stats.TotalRevenue)

	// Status administration: unknown statuses are rejected, known ones go
	// through regardless of the current state
	resp = doRequest(t, env.app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", adminToken, map[string]string{
		"status": "teleported",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, env.app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", adminToken, map[string]string{
		"status": "shipped",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Order
	decodeBody(t, resp, &updated)
	assert.Equal(t, models.StatusShipped, updated.Status)

	// Shipped orders can no longer be cancelled by their owner
	resp = doRequest(t, env.app, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", userToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// User management
	resp = doRequest(t, env.app, http.MethodGet, "/api/v1/admin/users/", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	decodeBody(t, resp, &users)
	assert.Len(t, users, 2)

	shopper, err := env.users.GetByEmail("shopper@example.com")
	assert.NoError(t, err)
	resp = doRequest(t, env.app, http.MethodPatch, "/api/v1/admin/users/"+shopper.ID+"/role", adminToken, map[string]string{
		"role": "admin",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var promoted models.User
	decodeBody(t, resp, &promoted)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
}
