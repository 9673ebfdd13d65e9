package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/handler/api"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	catalogHandler *api.CatalogHandler,
	cartHandler *api.CartHandler,
	orderHandler *api.OrderHandler,
	eventsHandler *api.EventsHandler,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, catalogHandler, cartHandler, orderHandler, eventsHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
	engine.Use(middleware.Identity())
}

func setupRoutes(
	engine *gin.Engine,
	catalogHandler *api.CatalogHandler,
	cartHandler *api.CartHandler,
	orderHandler *api.OrderHandler,
	eventsHandler *api.EventsHandler,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		products := apiGroup.Group("/products")
		{
			addRoutes(products, []route{
				{Method: http.MethodGet, Path: "", Handler: catalogHandler.ListProducts},
				{Method: http.MethodGet, Path: "/:id", Handler: catalogHandler.GetProduct},
			})

			adminProducts := products.Group("")
			adminProducts.Use(middleware.RequireAdmin())
			addRoutes(adminProducts, []route{
				{Method: http.MethodPost, Path: "", Handler: catalogHandler.CreateProduct},
				{Method: http.MethodPut, Path: "/:id", Handler: catalogHandler.UpdateProduct},
				{Method: http.MethodDelete, Path: "/:id", Handler: catalogHandler.DeleteProduct},
			})
		}

		categories := apiGroup.Group("/categories")
		{
			addRoutes(categories, []route{
				{Method: http.MethodGet, Path: "", Handler: catalogHandler.ListCategories},
			})

			adminCategories := categories.Group("")
			adminCategories.Use(middleware.RequireAdmin())
			addRoutes(adminCategories, []route{
				{Method: http.MethodPost, Path: "", Handler: catalogHandler.CreateCategory},
				{Method: http.MethodPut, Path: "/:id", Handler: catalogHandler.UpdateCategory},
				{Method: http.MethodDelete, Path: "/:id", Handler: catalogHandler.DeleteCategory},
			})
		}

		cart := apiGroup.Group("/cart")
		cart.Use(middleware.RequireIdentity())
		{
			addRoutes(cart, []route{
				{Method: http.MethodGet, Path: "", Handler: cartHandler.Get},
				{Method: http.MethodPost, Path: "/items", Handler: cartHandler.AddItem},
				{Method: http.MethodPut, Path: "/items/:productId", Handler: cartHandler.SetQuantity},
				{Method: http.MethodDelete, Path: "/items/:productId", Handler: cartHandler.RemoveItem},
				{Method: http.MethodDelete, Path: "", Handler: cartHandler.Clear},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(middleware.RequireIdentity())
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: orderHandler.Checkout},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.Get},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: orderHandler.Transition},
			})
		}

		eventsGroup := apiGroup.Group("/events")
		eventsGroup.Use(middleware.RequireIdentity())
		{
			addRoutes(eventsGroup, []route{
				{Method: http.MethodGet, Path: "/orders", Handler: eventsHandler.Stream},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
