package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chinenye997/IMS/internal/domain"
	"github.com/Chinenye997/IMS/internal/service/sales"
)

type productRequest struct {
	Name        string `json:"name"`
	PriceMinor  int64  `json:"price_minor"`
	Quantity    int    `json:"quantity"`
	Active      *bool  `json:"active,omitempty"`
	PhotoURL    string `json:"photo_url"`
	Description string `json:"description"`
}

type sellRequest struct {
	Quantity      int    `json:"quantity"`
	RequesterID   string `json:"requester_id"`
	PaymentMethod string `json:"payment_method"`
}

type restockRequest struct {
	Amount int `json:"amount"`
}

type restockResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	created, err := h.catalog.Create(r.Context(), domain.Product{
		Name:        req.Name,
		PriceMinor:  req.PriceMinor,
		Quantity:    req.Quantity,
		Active:      active,
		PhotoURL:    req.PhotoURL,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	product := domain.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		PriceMinor:  req.PriceMinor,
		Active:      active,
		PhotoURL:    req.PhotoURL,
		Description: req.Description,
	}
	if err := h.catalog.Update(r.Context(), product); err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.catalog.Get(r.Context(), product.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sellProduct — ручная продажа со страницы товара, минуя корзину.
func (h *Handler) sellProduct(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	order, err := h.sales.SellProduct(r.Context(), chi.URLParam(r, "id"), req.Quantity, sales.RequesterInfo{
		RequesterID:   req.RequesterID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) restockProduct(w http.ResponseWriter, r *http.Request) {
	var req restockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	productID := chi.URLParam(r, "id")
	quantity, err := h.sales.Restock(r.Context(), productID, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restockResponse{ProductID: productID, Quantity: quantity})
}

func (h *Handler) finances(w http.ResponseWriter, r *http.Request) {
	report, err := h.catalog.Finances(r.Context(), 5)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
