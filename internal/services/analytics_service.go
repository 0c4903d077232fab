package services

import (
	"sort"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
)

// DailyStat is one day's order count and revenue.
type DailyStat struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ProductSales is a product's total quantity sold across all orders.
type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// DashboardStats is the back-office dashboard payload.
type DashboardStats struct {
	TotalUsers    int            `json:"total_users"`
	TotalProducts int            `json:"total_products"`
	TotalOrders   int            `json:"total_orders"`
	TotalRevenue  float64        `json:"total_revenue"`
	Daily         []DailyStat    `json:"daily"`
	TopProducts   []ProductSales `json:"top_products"`
}

// AnalyticsService derives dashboard aggregates by scanning the full user,
// product and order collections, the way the legacy admin screen computed
// them on every render.
type AnalyticsService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	userRepo repositories.UserRepository,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
) *AnalyticsService {
	return &AnalyticsService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// countsTowardRevenue excludes orders whose money flowed back out.
func countsTowardRevenue(status models.OrderStatus) bool {
	return status != models.StatusCancelled && status != models.StatusRefunded
}

// Dashboard computes the full dashboard payload.
func (s *AnalyticsService) Dashboard() (*DashboardStats, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:    len(users),
		TotalProducts: len(products),
		TotalOrders:   len(orders),
	}

	byDay := make(map[string]*DailyStat)
	byProduct := make(map[string]*ProductSales)
	for _, order := range orders {
		if !countsTowardRevenue(order.Status) {
			continue
		}

		stats.TotalRevenue += order.Total

		day := order.CreatedAt.Format("2006-01-02")
		ds, ok := byDay[day]
		if !ok {
			ds = &DailyStat{Date: day}
			byDay[day] = ds
		}
		ds.Orders++
		ds.Revenue += order.Total

		for _, item := range order.Items {
			ps, ok := byProduct[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Name: item.Name}
				byProduct[item.ProductID] = ps
			}
			ps.Quantity += item.Quantity
		}
	}

	stats.Daily = make([]DailyStat, 0, len(byDay))
	for _, ds := range byDay {
		stats.Daily = append(stats.Daily, *ds)
	}
	sort.Slice(stats.Daily, func(i, j int) bool {
		return stats.Daily[i].Date < stats.Daily[j].Date
	})

	stats.TopProducts = make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		stats.TopProducts = append(stats.TopProducts, *ps)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		if stats.TopProducts[i].Quantity != stats.TopProducts[j].Quantity {
			return stats.TopProducts[i].Quantity > stats.TopProducts[j].Quantity
		}
		return stats.TopProducts[i].ProductID < stats.TopProducts[j].ProductID
	})
	if len(stats.TopProducts) > 5 {
		stats.TopProducts = stats.TopProducts[:5]
	}

	return stats, nil
}
