package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/middleware"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalog}
}

type categoryPayload struct {
	Designation     string              `json:"designation"`
	Slug            string              `json:"slug"`
	Kind            domain.CategoryKind `json:"kind"`
	Price           float64             `json:"price"`
	RequiresInfo    bool                `json:"requires_info"`
	RequiresParents bool                `json:"requires_parents"`
	Visible         bool                `json:"visible"`
	NotifTemplate   string              `json:"notif_template"`
}

func (p categoryPayload) toDomain(id int64) domain.Category {
	return domain.Category{
		ID:              id,
		Designation:     p.Designation,
		Slug:            p.Slug,
		Kind:            p.Kind,
		Price:           p.Price,
		RequiresInfo:    p.RequiresInfo,
		RequiresParents: p.RequiresParents,
		Visible:         p.Visible,
		NotifTemplate:   p.NotifTemplate,
	}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	cats, err := h.catalogService.ListCategories(r.Context(), *caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cat, err := h.catalogService.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := h.catalogService.CreateCategory(r.Context(), payload.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := h.catalogService.UpdateCategory(r.Context(), payload.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type levelPayload struct {
	Designation string `json:"designation"`
}

func (h *CatalogHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.catalogService.ListLevels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

func (h *CatalogHandler) CreateLevel(w http.ResponseWriter, r *http.Request) {
	var payload levelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	level, err := h.catalogService.CreateLevel(r.Context(), payload.Designation)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, level)
}

func (h *CatalogHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload levelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	level, err := h.catalogService.UpdateLevel(r.Context(), id, payload.Designation)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, level)
}

func (h *CatalogHandler) DeleteLevel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogService.DeleteLevel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.catalogService.ListYears(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, years)
}
