// Package seed holds the canned demo dataset shared by the in-memory
// fallback provider and the optional database seeder, so both backends start
// from the same deterministic state.
package seed

import (
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

// DemoCustomerID is the identity the conversational demo resolves to.
const DemoCustomerID = "123"

// Customers returns the seeded customer rows.
func Customers() []models.Customer {
	return []models.Customer{
		{
			ID:             DemoCustomerID,
			AccountNumber:  "428765091",
			FirstName:      "Alex",
			LastName:       "Johnson",
			Email:          "alex.johnson@example.com",
			PhoneNumber:    "+1-702-555-1212",
			StartDate:      "2022-06-10",
			LoyaltyPoints:  133,
			PreferredStore: "Sports Basement",
			CommunicationPreferences: types.CommunicationPreferences{
				Email:             true,
				SMS:               false,
				PushNotifications: true,
			},
			SportsProfile: types.SportsProfile{
				PreferredSports:   []string{"Tennis", "Running"},
				SkillLevel:        map[string]string{"Tennis": "Intermediate", "Running": "Beginner"},
				FavoriteTeams:     []string{"Lakers", "Dodgers"},
				Interests:         []string{"Hiking", "Yoga"},
				ActivityFrequency: "weekly",
			},
		},
	}
}

// Products returns the seeded catalog rows.
func Products() []models.Product {
	return []models.Product{
		{ID: "TEN-BALL-01", Name: "Tennis Balls (4-pack)", Description: "Championship felt, all-court.", PriceCents: 1199, Category: "Equipment", Sport: "Tennis", InventoryCount: 60},
		{ID: "TEN-SHOE-01", Name: "ProCourt Tennis Shoes", Description: "Excellent stability for court movement.", PriceCents: 12999, Category: "Footwear", Sport: "Tennis", InventoryCount: 14},
		{ID: "TEN-RAC-ADV", Name: "Advanced Graphite Racket", Description: "Great for intermediate players seeking more power.", PriceCents: 14999, Category: "Equipment", Sport: "Tennis", InventoryCount: 8},
		{ID: "TNR-001", Name: "ProStaff Tennis Racket", Description: "Classic control-oriented frame.", PriceCents: 5999, Category: "Equipment", Sport: "Tennis", InventoryCount: 11},
		{ID: "TNB-003", Name: "Tennis Balls (3-pack)", Description: "Pressurized match balls.", PriceCents: 1299, Category: "Equipment", Sport: "Tennis", InventoryCount: 42},
		{ID: "RUN-S05", Name: "CloudRunner Running Shoes", Description: "Neutral cushioning for daily miles.", PriceCents: 13999, Category: "Footwear", Sport: "Running", InventoryCount: 21},
		{ID: "RUN-A01", Name: "Running Socks (3-pack)", Description: "Moisture-wicking crew socks.", PriceCents: 1576, Category: "Apparel", Sport: "Running", InventoryCount: 35},
		{ID: "BKB-007", Name: "Official Size Basketball", Description: "Indoor/outdoor composite leather.", PriceCents: 2999, Category: "Equipment", Sport: "Basketball", InventoryCount: 18},
		{ID: "NKB-007", Name: "Air Zoom Basketball Shoes", Description: "Responsive cushioning for the court.", PriceCents: 15525, Category: "Footwear", Sport: "Basketball", InventoryCount: 9},
		{ID: "SKI-WAX-02", Name: "All-Temperature Ski Wax", Description: "Universal glide wax block.", PriceCents: 1850, Category: "Equipment", Sport: "Skiing", InventoryCount: 27},
		{ID: "CYC-TUBE-700", Name: "Road Bike Inner Tube 700c", Description: "Presta valve, 700x23-28.", PriceCents: 899, Category: "Equipment", Sport: "Cycling", InventoryCount: 0},
	}
}

// CartItems returns the demo customer's starting cart: the running bundle the
// assistant walkthrough begins from.
func CartItems() []models.CartItem {
	return []models.CartItem{
		{CustomerID: DemoCustomerID, ProductID: "RUN-S05", Quantity: 1, UnitPriceCents: 13999},
		{CustomerID: DemoCustomerID, ProductID: "RUN-A01", Quantity: 1, UnitPriceCents: 1576},
	}
}

// Orders returns the demo customer's purchase history.
func Orders() []models.Order {
	return []models.Order{
		{
			ID:         "ORD-8F3A21C0",
			CustomerID: DemoCustomerID,
			Status:     enums.OrderStatusConfirmed,
			TotalCents: 8597,
			Items: []models.OrderItem{
				{OrderID: "ORD-8F3A21C0", ProductID: "TNR-001", Quantity: 1, UnitPriceCents: 5999},
				{OrderID: "ORD-8F3A21C0", ProductID: "TNB-003", Quantity: 2, UnitPriceCents: 1299},
			},
		},
	}
}
