package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/config"
	"github.com/avento/storefront/internal/logger"
	"github.com/avento/storefront/internal/models"
	"github.com/avento/storefront/internal/storage"
	"github.com/avento/storefront/internal/store"
	"github.com/avento/storefront/internal/toast"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logg := logger.New(logger.Options{
		Service: "storefront",
		Level:   os.Getenv("LOG_LEVEL"),
	})

	st, err := storage.New(cfg.Storage.Dir)
	if err != nil {
		log.Fatalf("Open storage: %v", err)
	}

	client := api.New(cfg.API.BaseURL, tokenFromStorage(st))
	geocoder := api.NewGeocoder(cfg.API.GeocoderURL)

	toasts := toast.NewDispatcher(toast.Options{
		Limit:       cfg.Toast.Limit,
		RemoveDelay: cfg.Toast.RemoveDelay,
	})
	defer toasts.Close()
	unsubscribe := toasts.Subscribe(printToasts)
	defer unsubscribe()

	auth := store.NewAuth(st, client, toasts, confirmPrompt)
	cart := store.NewCart(st, client, toasts, openCheckoutPage)
	lists := store.NewLists(st, client, confirmPrompt)
	settings := store.NewSettings(st, client, auth, applyTheme, nil)
	address := store.NewAddress(geocoder, toasts, store.AddressOptions{
		Debounce:  cfg.Search.Debounce,
		MinLength: cfg.Search.MinLength,
		Limit:     cfg.Search.Limit,
	})
	defer address.Close()

	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "search":
		runSearch(ctx, client, cfg.Search.Limit, args)
	case "product":
		runProduct(ctx, client, args)
	case "cart":
		runCart(ctx, cart, client, args)
	case "lists":
		runLists(ctx, lists, args)
	case "register":
		expectArgs(args, 3, "register <name> <email> <password>")
		if err := auth.Register(ctx, args[0], args[1], args[2]); err != nil {
			os.Exit(1)
		}
	case "login":
		expectArgs(args, 2, "login <email> <password>")
		if err := auth.Login(ctx, args[0], args[1]); err != nil {
			os.Exit(1)
		}
	case "logout":
		auth.Logout()
	case "delete-account":
		if err := auth.DeleteAccount(ctx); err != nil {
			os.Exit(1)
		}
	case "settings":
		runSettings(ctx, settings, args)
	case "orders":
		runOrders(ctx, client, cart, logg, args)
	case "address":
		expectArgs(args, 1, "address <query>")
		runAddress(address, cfg.Search.Debounce, args[0])
	default:
		usage()
	}
}

func runSearch(ctx context.Context, client *api.Client, limit int, args []string) {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	products, err := client.SearchProducts(ctx, query, limit)
	if err != nil {
		log.Fatalf("Search products: %v", err)
	}
	for _, p := range products {
		fmt.Printf("%s  %-30s  %s %s  (%d in stock)\n", p.ID, p.Name, p.Price, p.Currency, p.Inventory)
	}
}

func runProduct(ctx context.Context, client *api.Client, args []string) {
	expectArgs(args, 1, "product <id>")
	product, err := client.GetProduct(ctx, args[0])
	if err != nil {
		log.Fatalf("Get product: %v", err)
	}
	fmt.Printf("%s\n%s %s\n%s\n", product.Name, product.Price, product.Currency, product.Description)

	reviews, err := client.GetProductReviews(ctx, product.ID)
	if err != nil {
		log.Fatalf("Get reviews: %v", err)
	}
	for _, review := range reviews {
		fmt.Printf("  [%d/5] %s\n", review.Rating, review.Comment)
	}
}

func runCart(ctx context.Context, cart *store.Cart, client *api.Client, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		for _, item := range cart.Items() {
			fmt.Printf("%s  %-30s  x%d  %s %s\n", item.ID, item.Name, item.Quantity, item.Subtotal(), item.Currency)
		}
		fmt.Printf("total: %d items, %s\n", cart.TotalItems(), cart.TotalPrice())
	case "add":
		expectArgs(args[1:], 1, "cart add <product-id> [quantity]")
		quantity := 1
		if len(args) > 2 {
			quantity, _ = strconv.Atoi(args[2])
		}
		product, err := client.GetProduct(ctx, args[1])
		if err != nil {
			log.Fatalf("Get product: %v", err)
		}
		err = cart.AddItem(models.CartItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Currency: product.Currency,
			Quantity: quantity,
			Images:   product.Images,
		})
		if err != nil {
			log.Fatalf("Add to cart: %v", err)
		}
	case "remove":
		expectArgs(args[1:], 1, "cart remove <product-id>")
		if err := cart.RemoveItem(args[1]); err != nil {
			log.Fatalf("Remove from cart: %v", err)
		}
	case "qty":
		expectArgs(args[1:], 2, "cart qty <product-id> <quantity>")
		quantity, _ := strconv.Atoi(args[2])
		if err := cart.UpdateQuantity(args[1], quantity); err != nil {
			log.Fatalf("Update quantity: %v", err)
		}
	case "clear":
		if err := cart.Clear(); err != nil {
			log.Fatalf("Clear cart: %v", err)
		}
	case "checkout":
		expectArgs(args[1:], 2, "cart checkout <full-name> <address>")
		err := cart.Checkout(ctx, store.DeliveryDetails{FullName: args[1], Address: args[2]})
		if err != nil {
			os.Exit(1)
		}
	case "complete":
		expectArgs(args[1:], 1, "cart complete <return-url>")
		returnURL, err := url.Parse(args[1])
		if err != nil {
			log.Fatalf("Parse return URL: %v", err)
		}
		if err := cart.CompleteCheckout(returnURL.Query()); err != nil {
			log.Fatalf("Complete checkout: %v", err)
		}
	default:
		usage()
	}
}

func runLists(ctx context.Context, lists *store.Lists, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	var err error
	switch args[0] {
	case "list":
		for _, list := range lists.Lists() {
			fmt.Printf("%s  %-20s  %d products\n", list.ID, list.Name, len(list.ProductIDs))
		}
	case "fetch":
		err = lists.Fetch(ctx)
	case "show":
		expectArgs(args[1:], 1, "lists show <list-id>")
		var products []models.Product
		products, err = lists.Products(ctx, args[1])
		for _, p := range products {
			fmt.Printf("%s  %-30s  %s %s\n", p.ID, p.Name, p.Price, p.Currency)
		}
	case "create":
		expectArgs(args[1:], 1, "lists create <name>")
		_, err = lists.Create(ctx, args[1])
	case "rename":
		expectArgs(args[1:], 2, "lists rename <list-id> <name>")
		_, err = lists.Rename(ctx, args[1], args[2])
	case "add":
		expectArgs(args[1:], 2, "lists add <list-id> <product-id>")
		_, err = lists.AddProduct(ctx, args[1], args[2])
	case "remove":
		expectArgs(args[1:], 2, "lists remove <list-id> <product-id>")
		_, err = lists.RemoveProduct(ctx, args[1], args[2])
	case "delete":
		expectArgs(args[1:], 1, "lists delete <list-id>")
		err = lists.Delete(ctx, args[1])
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("Lists %s: %v", args[0], err)
	}
}

func runSettings(ctx context.Context, settings *store.Settings, args []string) {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		if err := settings.Load(ctx); err != nil {
			log.Printf("Load settings: %v (showing cached values)", err)
		}
		s := settings.Settings()
		fmt.Printf("loginAlerts: %v\ntrustedDevices: %v\nanalyticsTracking: %v\n", s.LoginAlerts, s.TrustedDevices, s.AnalyticsTracking)
		fmt.Printf("personalizedRecommendations: %v\ncompactProductLayout: %v\n", s.PersonalizedRecommendations, s.CompactProductLayout)
		if s.DarkMode == nil {
			fmt.Println("darkMode: system")
		} else {
			fmt.Printf("darkMode: %v\n", *s.DarkMode)
		}
	case "set":
		expectArgs(args[1:], 2, "settings set <key> <true|false|system>")
		var value any
		switch args[2] {
		case "system":
			value = nil
		default:
			flag, err := strconv.ParseBool(args[2])
			if err != nil {
				log.Fatalf("Parse value: %v", err)
			}
			value = flag
		}
		if err := settings.Update(ctx, args[1], value); err != nil {
			log.Fatalf("Update setting: %v", err)
		}
	default:
		usage()
	}
}

func runOrders(ctx context.Context, client *api.Client, cart *store.Cart, logg *slog.Logger, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		orders, err := client.GetOrders(ctx)
		if err != nil {
			logg.Error("fetch orders", "error", err)
			os.Exit(1)
		}
		for _, order := range orders {
			fmt.Printf("%s  %s  %s  (%d products)\n", order.ID, order.Name, order.Address, len(order.ProductIDs))
		}
	case "place":
		expectArgs(args[1:], 2, "orders place <full-name> <address>")
		result, err := client.CreateOrder(ctx, cart.Items(), args[1], args[2])
		if err != nil {
			logg.Error("create order", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Order %s created.\n", result.OrderID)
		if result.URL != "" {
			fmt.Printf("Complete your payment at:\n%s\n", result.URL)
		}
	default:
		usage()
	}
}

func runAddress(address *store.Address, debounce time.Duration, query string) {
	address.Search(query)
	// The lookup is debounced and asynchronous; give it time to land.
	time.Sleep(debounce + 2*time.Second)
	for _, place := range address.Results() {
		fmt.Printf("%d  %s\n", place.PlaceID, place.DisplayName)
	}
}

// tokenFromStorage reads the persisted session on every request, so a login
// in one invocation carries into the next.
func tokenFromStorage(st *storage.Store) api.TokenSource {
	return func() string {
		var session models.Session
		if st.Load(storage.KeyAuth, &session) {
			return session.Token
		}
		return ""
	}
}

func printToasts(messages []toast.Message) {
	for _, msg := range messages {
		if !msg.Open {
			continue
		}
		if msg.Variant == toast.VariantDestructive {
			fmt.Fprintf(os.Stderr, "!! %s: %s\n", msg.Title, msg.Description)
		} else {
			fmt.Fprintf(os.Stderr, "-- %s: %s\n", msg.Title, msg.Description)
		}
	}
}

func confirmPrompt(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func openCheckoutPage(checkoutURL string) error {
	fmt.Printf("Complete your payment at:\n%s\n", checkoutURL)
	return nil
}

func applyTheme(dark bool) {
	if dark {
		fmt.Fprintln(os.Stderr, "theme: dark")
	} else {
		fmt.Fprintln(os.Stderr, "theme: light")
	}
}

func expectArgs(args []string, n int, usageLine string) {
	if len(args) < n {
		log.Fatalf("Usage: storefront %s", usageLine)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: storefront <command> [args]

Commands:
  search [query]                      search the catalog
  product <id>                        show a product and its reviews
  cart [list|add|remove|qty|clear|checkout|complete]
  lists [list|fetch|show|create|rename|add|remove|delete]
  register <name> <email> <password>
  login <email> <password>
  logout
  delete-account
  settings [show|set <key> <value>]
  orders [list|place <full-name> <address>]
  address <query>`)
	os.Exit(2)
}
