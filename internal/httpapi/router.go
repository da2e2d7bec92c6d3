package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/Chinenye997/IMS/internal/service/cart"
	"github.com/Chinenye997/IMS/internal/service/catalog"
	"github.com/Chinenye997/IMS/internal/service/orderquery"
	"github.com/Chinenye997/IMS/internal/service/sales"
)

// Handler объединяет HTTP-обработчики поверх сервисного слоя.
type Handler struct {
	catalog *catalog.Service
	sales   sales.Coordinator
	cart    *cart.Service
	orders  *orderquery.Service
	logger  *log.Entry
}

// NewHandler создаёт HTTP-слой приложения.
func NewHandler(
	catalogSvc *catalog.Service,
	coordinator sales.Coordinator,
	cartSvc *cart.Service,
	ordersSvc *orderquery.Service,
	logger *log.Entry,
) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Handler{
		catalog: catalogSvc,
		sales:   coordinator,
		cart:    cartSvc,
		orders:  ordersSvc,
		logger:  logger,
	}
}

// NewRouter собирает chi-роутер со стандартными middleware.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
			r.Post("/{id}/sell", h.sellProduct)
			r.Post("/{id}/restock", h.restockProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Post("/items", h.addCartItem)
			r.Put("/items/{productID}", h.updateCartItem)
			r.Delete("/items/{productID}", h.removeCartItem)
		})
		r.Post("/checkout", h.checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Get("/{invoiceNo}", h.getOrder)
		})

		r.Get("/finances", h.finances)
	})

	return r
}
