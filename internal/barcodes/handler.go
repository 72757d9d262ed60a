package barcodes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocktag/stocktag/internal/platform/httpx"
	"github.com/stocktag/stocktag/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers barcode routes. Listing is a POST because the
// filter/sort/pagination payload travels in the body.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/get", h.get)
	r.Post("/", h.create)
	r.Put("/{id}", h.edit)
	r.Delete("/", h.remove)
	r.Post("/{id}/print", h.print)
	r.Post("/generate-code", h.generateCode)
}

type getRequest struct {
	Pagination shared.PageRequest `json:"pagination"`
	Filters    Filters            `json:"filters"`
	Sorters    Sorters            `json:"sorters"`
}

type mutateRequest struct {
	Code     string       `json:"code"`
	Products []ProductRef `json:"products"`
	Active   *bool        `json:"active"`
}

type removeRequest struct {
	IDs []string `json:"ids"`
}

type printRequest struct {
	Size     string `json:"size"`
	Language string `json:"language"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	var req getRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	views, total, err := h.service.Get(r.Context(), req.Pagination, req.Filters, req.Sorters)
	if err != nil {
		h.logger.Error("get barcodes failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"barcodes": views, "barcodesCount": total})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req mutateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	view, err := h.service.Create(r.Context(), CreateInput{Code: req.Code, Products: req.Products, Active: req.Active})
	if err != nil {
		h.logger.Error("create barcode failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"barcode": view})
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	var req mutateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	view, err := h.service.Edit(r.Context(), chi.URLParam(r, "id"), req.Code, req.Products, req.Active)
	if err != nil {
		h.logger.Error("edit barcode failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"barcode": view})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.Remove(r.Context(), req.IDs); err != nil {
		h.logger.Error("remove barcodes failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{})
}

func (h *Handler) print(w http.ResponseWriter, r *http.Request) {
	var req printRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	document, err := h.service.Print(r.Context(), chi.URLParam(r, "id"), req.Size, req.Language)
	if err != nil {
		h.logger.Error("print barcode failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}

func (h *Handler) generateCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.service.GenerateCode(r.Context())
	if err != nil {
		h.logger.Error("generate code failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"code": code})
}
