// Seeds the backend catalog with demo products through the administrative
// create endpoint. Intended for local development against a fresh backend.
package main

import (
	"context"
	"log"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/config"
)

var demoProducts = []api.CreateProductPayload{
	{
		Name:        "Walnut Desk Organizer",
		Description: "Five-compartment organizer milled from solid walnut.",
		Price:       42.00,
		Currency:    "USD",
		Inventory:   25,
		Category:    "office",
	},
	{
		Name:        "Ceramic Pour-Over Set",
		Description: "Dripper, carafe and two cups in matte stoneware.",
		Price:       68.50,
		Currency:    "USD",
		Inventory:   12,
		Category:    "kitchen",
	},
	{
		Name:        "Linen Throw Blanket",
		Description: "Stonewashed linen, 130x170cm.",
		Price:       89.00,
		Currency:    "USD",
		Inventory:   40,
		Category:    "home",
	},
	{
		Name:        "Brass Reading Lamp",
		Description: "Adjustable arm, warm dimmable LED.",
		Price:       120.00,
		Currency:    "USD",
		Inventory:   8,
		Category:    "home",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	client := api.New(cfg.API.BaseURL, nil)
	ctx := context.Background()

	for _, payload := range demoProducts {
		product, err := client.CreateProduct(ctx, payload)
		if err != nil {
			log.Fatalf("Create product %q: %v", payload.Name, err)
		}
		log.Printf("Created product %s (%s)", product.Name, product.ID)
	}
}
