package properties

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocktag/stocktag/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.listGroups)
		r.Get("/{id}", h.getGroup)
		r.Post("/", h.createGroup)
		r.Put("/{id}", h.updateGroup)
		r.Delete("/{id}", h.deleteGroup)
	})
	r.Route("/definitions", func(r chi.Router) {
		r.Get("/", h.listDefinitions)
		r.Get("/{id}", h.getDefinition)
		r.Post("/", h.createDefinition)
		r.Put("/{id}", h.updateDefinition)
		r.Delete("/{id}", h.deleteDefinition)
	})
	r.Route("/options", func(r chi.Router) {
		r.Get("/", h.listOptions)
		r.Post("/", h.createOption)
		r.Put("/{id}", h.updateOption)
		r.Delete("/{id}", h.deleteOption)
	})
}

type groupForm struct {
	Names         map[string]string `json:"names"`
	DefinitionIDs []string          `json:"definition_ids"`
}

type definitionForm struct {
	Names       map[string]string `json:"names"`
	Type        string            `json:"type"`
	IsRequired  bool              `json:"is_required"`
	ShowInTable bool              `json:"show_in_table"`
}

type optionForm struct {
	Names        map[string]string `json:"names"`
	Color        string            `json:"color"`
	DefinitionID string            `json:"definition_id"`
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListGroups(r.Context())
	if err != nil {
		h.logger.Error("list property groups failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"productPropertiesGroups": items})
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"productPropertiesGroup": item})
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var form groupForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	item, err := h.service.CreateGroup(r.Context(), Group{Names: form.Names, DefinitionIDs: form.DefinitionIDs})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"productPropertiesGroup": item})
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	var form groupForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.UpdateGroup(r.Context(), id, Group{Names: form.Names, DefinitionIDs: form.DefinitionIDs}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetGroup(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"productPropertiesGroup": item})
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{})
}

func (h *Handler) listDefinitions(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListDefinitions(r.Context())
	if err != nil {
		h.logger.Error("list property definitions failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"productProperties": items})
}

func (h *Handler) getDefinition(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetDefinition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"productProperty": item})
}

func (h *Handler) createDefinition(w http.ResponseWriter, r *http.Request) {
	var form definitionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	item, err := h.service.CreateDefinition(r.Context(), Definition{
		Names:       form.Names,
		Type:        PropertyType(form.Type),
		IsRequired:  form.IsRequired,
		ShowInTable: form.ShowInTable,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"productProperty": item})
}

func (h *Handler) updateDefinition(w http.ResponseWriter, r *http.Request) {
	var form definitionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	id := chi.URLParam(r, "id")
	err := h.service.UpdateDefinition(r.Context(), id, Definition{
		Names:       form.Names,
		Type:        PropertyType(form.Type),
		IsRequired:  form.IsRequired,
		ShowInTable: form.ShowInTable,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetDefinition(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"productProperty": item})
}

func (h *Handler) deleteDefinition(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDefinition(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{})
}

func (h *Handler) listOptions(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListOptions(r.Context(), r.URL.Query().Get("definition_id"))
	if err != nil {
		h.logger.Error("list property options failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"productPropertyOptions": items})
}

func (h *Handler) createOption(w http.ResponseWriter, r *http.Request) {
	var form optionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	item, err := h.service.CreateOption(r.Context(), Option{
		Names:        form.Names,
		Color:        form.Color,
		DefinitionID: form.DefinitionID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"productPropertyOption": item})
}

func (h *Handler) updateOption(w http.ResponseWriter, r *http.Request) {
	var form optionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.UpdateOption(r.Context(), id, Option{Names: form.Names, Color: form.Color}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{})
}

func (h *Handler) deleteOption(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOption(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{})
}
