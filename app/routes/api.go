// Package routes wires the HTTP surface onto the named router.
package routes

import (
	"net/http"

	"github.com/splatmarket/splatmarket/app/controllers"
	"github.com/splatmarket/splatmarket/pkg/metrics"
	"github.com/splatmarket/splatmarket/pkg/router"
)

// Handlers bundles everything the route table mounts.
type Handlers struct {
	Users      *controllers.UserController
	Items      *controllers.ItemController
	Categories *controllers.CategoryController
	Reviews    *controllers.ReviewController
	Orders     *controllers.OrderController
	Render     *controllers.RenderController

	GraphQL http.HandlerFunc
	RelayWS http.HandlerFunc
}

// Register mounts the API. Everything lives under /api except the render
// trigger, the websocket relay and the metrics scrape.
func Register(r *router.Router, h Handlers) {
	api := r.Group("/api")

	api.Post("/join", "users.join", h.Users.Join)
	api.Post("/login", "users.login", h.Users.Login)
	api.Get("/users", "users.list", h.Users.List)

	api.Post("/items", "items.create", h.Items.Create)
	api.Get("/items", "items.list", h.Items.List)
	api.Get("/items/category/{category_id}", "items.by_category", h.Items.ByCategory)
	api.Get("/items/search/{item_name}", "items.search", h.Items.Search)
	api.Get("/items/{item_id}", "items.show", h.Items.Show)
	api.Get("/items/{item_id}/multi", "items.media", h.Items.Media)
	api.Get("/items/{item_id}/image", "items.image", h.Items.Image)
	api.Put("/items/{item_id}/splat", "items.splat", h.Items.UpdateSplat)
	api.Delete("/items/{item_id}/category/{category_id}", "items.detach_category", h.Items.DetachCategory)

	// The plural survives from the original client contract.
	api.Post("/categorys", "categories.create", h.Categories.Create)
	api.Get("/categorys", "categories.list", h.Categories.List)

	api.Get("/reviews", "reviews.list", h.Reviews.List)
	api.Post("/items/{item_id}/reviews", "reviews.create", h.Reviews.Create)
	api.Get("/items/{item_id}/reviews", "reviews.by_item", h.Reviews.ByItem)

	api.Post("/order", "orders.create", h.Orders.Create)
	api.Get("/orders/user/{user_id}", "orders.by_user", h.Orders.ByUser)
	api.Get("/orders/items/{item_id}", "orders.by_item", h.Orders.ByItem)
	api.Put("/order/pay/{order_id}", "orders.pay", h.Orders.Pay)

	api.Post("/graphql", "graphql", h.GraphQL)

	r.Post("/send/{item_id}", "render.dispatch", h.Render.Dispatch)
	r.Get("/ws", "relay.ws", h.RelayWS)

	r.HandleFunc("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})
}
