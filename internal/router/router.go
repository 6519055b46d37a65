package router

import (
	"net/http"

	"tenera-store/internal/config"
	"tenera-store/internal/handler"
	"tenera-store/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Product  *handler.ProductHandler
	Webhook  *handler.WebhookHandler
	Tracking *handler.TrackingHandler
	Admin    *handler.AdminHandler
	Campaign *handler.CampaignHandler
}

// New builds the HTTP routing tree. Public storefront routes sit under
// /api/v1; the back-office lives under /api/v1/admin behind the API
// key; tracking endpoints are bare so pixels stay tiny.
func New(cfg *config.Config, h Handlers, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Tracking endpoints are unauthenticated and unversioned: they are
	// baked into email bodies and must never change shape.
	r.Get("/t/open.gif", h.Tracking.Open)
	r.Get("/t/click", h.Tracking.Click)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Post("/restore", h.Cart.Restore)
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Patch("/items/{itemID}", h.Cart.UpdateQuantity)
			r.Delete("/items/{itemID}", h.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout.Start)
			r.Get("/bumps", h.Checkout.Bumps)
			r.Post("/bumps/{bumpID}/accept", h.Checkout.AcceptBump)
			r.Get("/upsells", h.Checkout.Upsells)
			r.Post("/discount", h.Checkout.PreviewDiscount)
		})

		r.Get("/products", h.Product.List)
		r.Get("/products/{productID}", h.Product.Get)

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/paystack", h.Webhook.Paystack)
			r.Get("/whatsapp", h.Webhook.WhatsAppVerify)
			r.Post("/whatsapp", h.Webhook.WhatsAppReceive)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth.APIKey, logger))

			r.Post("/products", h.Admin.CreateProduct)
			r.Put("/products/{productID}", h.Admin.UpdateProduct)
			r.Delete("/products/{productID}", h.Admin.DeleteProduct)

			r.Get("/orders", h.Admin.ListOrders)
			r.Get("/orders/{orderID}", h.Admin.GetOrder)
			r.Patch("/orders/{orderID}/status", h.Admin.UpdateOrderStatus)

			r.Get("/discounts", h.Admin.ListDiscounts)
			r.Post("/discounts", h.Admin.CreateDiscount)
			r.Put("/discounts/{discountID}", h.Admin.UpdateDiscount)
			r.Delete("/discounts/{discountID}", h.Admin.DeleteDiscount)

			r.Get("/bumps", h.Admin.ListBumps)
			r.Post("/bumps", h.Admin.CreateBump)
			r.Put("/bumps/{bumpID}", h.Admin.UpdateBump)
			r.Delete("/bumps/{bumpID}", h.Admin.DeleteBump)

			r.Get("/upsells", h.Admin.ListUpsells)
			r.Post("/upsells", h.Admin.CreateUpsell)
			r.Put("/upsells/{upsellID}", h.Admin.UpdateUpsell)
			r.Delete("/upsells/{upsellID}", h.Admin.DeleteUpsell)

			r.Get("/tags", h.Campaign.ListTags)
			r.Post("/tags", h.Campaign.CreateTag)
			r.Delete("/tags/{tagID}", h.Campaign.DeleteTag)
			r.Post("/tags/{tagID}/assign", h.Campaign.AssignTag)
			r.Post("/tags/{tagID}/unassign", h.Campaign.UnassignTag)

			r.Get("/automations", h.Campaign.ListAutomations)
			r.Post("/automations", h.Campaign.CreateAutomation)
			r.Delete("/automations/{automationID}", h.Campaign.DeleteAutomation)

			r.Post("/emails", h.Campaign.ScheduleEmail)
			r.Post("/whatsapp", h.Campaign.SendWhatsApp)

			r.Get("/tracking/{campaignID}", h.Tracking.Stats)

			r.Get("/users", h.Campaign.ListUsers)
			r.Post("/users", h.Campaign.CreateUser)
			r.Post("/users/{userID}/roles", h.Campaign.GrantRole)
			r.Delete("/users/{userID}/roles/{role}", h.Campaign.RevokeRole)
		})
	})

	return r
}
