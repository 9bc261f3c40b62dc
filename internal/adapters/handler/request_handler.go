package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/middleware"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

type RequestHandler struct {
	requestService ports.RequestService
}

func NewRequestHandler(requests ports.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requests}
}

type supplementaryInfoPayload struct {
	Level        string `json:"level"`
	AcademicYear string `json:"academic_year"`
}

type createRequestPayload struct {
	CategoryID int64                      `json:"category_id"`
	LevelID    *int64                     `json:"level_id"`
	Year       *string                    `json:"year"`
	FatherName string                     `json:"father_name"`
	MotherName string                     `json:"mother_name"`
	Infos      []supplementaryInfoPayload `json:"infos"`
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params := ports.CreateRequestParams{
		RequesterID: caller.ID,
		CategoryID:  payload.CategoryID,
		LevelID:     payload.LevelID,
		Year:        payload.Year,
		FatherName:  payload.FatherName,
		MotherName:  payload.MotherName,
		Infos:       toInfos(payload.Infos),
	}

	req, err := h.requestService.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RequestView(req, caller))
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.requestService.Get(r.Context(), id, *caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestView(req, caller))
}

type requestListResponse struct {
	Items []requestView   `json:"items"`
	Meta  domain.PageMeta `json:"meta"`
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	filter, err := parseRequestFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	reqs, meta, err := h.requestService.List(r.Context(), filter, *caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestListResponse{Items: RequestViews(reqs, caller), Meta: meta})
}

type ownerUpdatePayload struct {
	FatherName *string                     `json:"father_name"`
	MotherName *string                     `json:"mother_name"`
	CategoryID *int64                      `json:"category_id"`
	Infos      *[]supplementaryInfoPayload `json:"infos"`
}

// UpdateOwner is the student edit, legal only while the request is
// still pending.
func (h *RequestHandler) UpdateOwner(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload ownerUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	upd := ports.OwnerUpdate{
		FatherName: payload.FatherName,
		MotherName: payload.MotherName,
		CategoryID: payload.CategoryID,
	}
	if payload.Infos != nil {
		upd.Infos = toInfos(*payload.Infos)
		if upd.Infos == nil {
			upd.Infos = []domain.SupplementaryInfo{}
		}
	}

	req, err := h.requestService.UpdateByOwner(r.Context(), id, caller.ID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestView(req, caller))
}

type staffUpdatePayload struct {
	Status *domain.RequestStatus `json:"status"`
	Paid   *bool                 `json:"paid"`
}

func (h *RequestHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload staffUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.requestService.UpdateByStaff(r.Context(), id, ports.StaffUpdate{
		Status: payload.Status,
		Paid:   payload.Paid,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestView(req, caller))
}

func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.requestService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toInfos(payloads []supplementaryInfoPayload) []domain.SupplementaryInfo {
	var infos []domain.SupplementaryInfo
	for _, p := range payloads {
		infos = append(infos, domain.SupplementaryInfo{Level: p.Level, AcademicYear: p.AcademicYear})
	}
	return infos
}

func parseRequestFilter(r *http.Request) (domain.RequestFilter, error) {
	var filter domain.RequestFilter

	query := r.URL.Query()
	filter.Status = domain.RequestStatus(query.Get("status"))
	filter.Search = query.Get("search")
	filter.RequesterID = query.Get("requester_id")

	if raw := query.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, domain.ErrInvalidArgument
		}
		filter.CategoryID = &id
	}
	if raw := query.Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, domain.ErrInvalidArgument
		}
		filter.StartDate = &t
	}
	if raw := query.Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, domain.ErrInvalidArgument
		}
		// Inclusive through the end of the day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	page, err := pageQuery(r)
	if err != nil {
		return filter, err
	}
	filter.PageQuery = page
	return filter, nil
}
