package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stocktag/stocktag/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type productForm struct {
	Names              map[string]string `json:"names" validate:"required,min=1"`
	Price              float64           `json:"price" validate:"gte=0"`
	CurrencyID         string            `json:"currency_id"`
	PurchasePrice      float64           `json:"purchase_price" validate:"gte=0"`
	PurchaseCurrencyID string            `json:"purchase_currency_id"`
	CategoryIDs        []string          `json:"category_ids"`
	UnitID             string            `json:"unit_id"`
	Images             []Image           `json:"images"`
	PropertyGroupID    string            `json:"product_property_group_id"`
	Properties         []PropertyValue   `json:"product_properties"`
}

func (f productForm) toProduct() Product {
	return Product{
		Names:              f.Names,
		Price:              f.Price,
		CurrencyID:         f.CurrencyID,
		PurchasePrice:      f.PurchasePrice,
		PurchaseCurrencyID: f.PurchaseCurrencyID,
		CategoryIDs:        f.CategoryIDs,
		UnitID:             f.UnitID,
		Images:             f.Images,
		PropertyGroupID:    f.PropertyGroupID,
		Properties:         f.Properties,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filters := ListFilters{
		Page:       page,
		Limit:      limit,
		Search:     r.URL.Query().Get("search"),
		CategoryID: r.URL.Query().Get("category_id"),
		BarcodeID:  r.URL.Query().Get("barcode_id"),
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": items, "productsCount": total})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"product": item})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	item, err := h.service.Create(r.Context(), form.toProduct())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"product": item})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Update(r.Context(), id, form.toProduct()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"product": item})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{})
}
