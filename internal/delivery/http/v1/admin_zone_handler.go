package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/utils"

	"github.com/goccy/go-json"
)

// ZoneCacheInvalidator drops the in-memory polygon index after an admin
// write so the next checkout sees fresh zone data.
type ZoneCacheInvalidator interface {
	Invalidate()
}

// AdminZoneHandler is the back-office CRUD surface for delivery zones
// and their free-delivery dates. The resolver only ever reads what this
// handler maintains.
type AdminZoneHandler struct {
	store domain.ZoneStore
	index ZoneCacheInvalidator
}

func NewAdminZoneHandler(store domain.ZoneStore, index ZoneCacheInvalidator) *AdminZoneHandler {
	return &AdminZoneHandler{store: store, index: index}
}

type zoneRequest struct {
	Name    string         `json:"name"`
	GeoJSON domain.RawJSON `json:"geojson"`
}

func (h *AdminZoneHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.store.ListZones(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, zones)
}

func (h *AdminZoneHandler) GetZone(w http.ResponseWriter, r *http.Request) {
	id, ok := zoneID(w, r)
	if !ok {
		return
	}

	zone, err := h.store.GetZoneByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			utils.WriteError(w, http.StatusNotFound, "zone not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, zone)
}

func (h *AdminZoneHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req zoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || len(req.GeoJSON) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "name and geojson are required")
		return
	}

	zone, err := h.store.CreateZone(r.Context(), req.Name, req.GeoJSON)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.index.Invalidate()
	utils.WriteJSON(w, http.StatusCreated, zone)
}

func (h *AdminZoneHandler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	id, ok := zoneID(w, r)
	if !ok {
		return
	}

	var req zoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || len(req.GeoJSON) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "name and geojson are required")
		return
	}

	zone, err := h.store.UpdateZone(r.Context(), id, req.Name, req.GeoJSON)
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			utils.WriteError(w, http.StatusNotFound, "zone not found")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.index.Invalidate()
	utils.WriteJSON(w, http.StatusOK, zone)
}

func (h *AdminZoneHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	id, ok := zoneID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteZone(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			utils.WriteError(w, http.StatusNotFound, "zone not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.index.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/zones/{id}/free-dates
func (h *AdminZoneHandler) ListFreeDates(w http.ResponseWriter, r *http.Request) {
	id, ok := zoneID(w, r)
	if !ok {
		return
	}

	if _, err := h.store.GetZoneByID(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			utils.WriteError(w, http.StatusNotFound, "zone not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dates, err := h.store.UpcomingFreeDates(r.Context(), id, domain.DateOf(time.Now()))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"zoneId": id, "freeDates": dates})
}

// POST /api/v1/admin/zones/{id}/free-dates  {"date": "2025-03-12"}
func (h *AdminZoneHandler) AddFreeDate(w http.ResponseWriter, r *http.Request) {
	id, ok := zoneID(w, r)
	if !ok {
		return
	}

	var req struct {
		Date domain.Date `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Date.IsZero() {
		utils.WriteError(w, http.StatusBadRequest, "date is required")
		return
	}
	if req.Date.Before(domain.DateOf(time.Now())) {
		utils.WriteError(w, http.StatusBadRequest, "date must not be in the past")
		return
	}

	if _, err := h.store.GetZoneByID(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			utils.WriteError(w, http.StatusNotFound, "zone not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.store.AddFreeDate(r.Context(), id, req.Date); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.index.Invalidate()
	utils.WriteJSON(w, http.StatusCreated, domain.FreeDeliveryDate{ZoneID: id, Date: req.Date})
}

// DELETE /api/v1/admin/zones/{id}/free-dates/{date}
func (h *AdminZoneHandler) RemoveFreeDate(w http.ResponseWriter, r *http.Request) {
	id, ok := zoneID(w, r)
	if !ok {
		return
	}

	date, err := domain.ParseDate(r.PathValue("date"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.RemoveFreeDate(r.Context(), id, date); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.index.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/zones/free-dates/upcoming?days=7
//
// Monitoring view across all zones.
func (h *AdminZoneHandler) UpcomingFreeDates(w http.ResponseWriter, r *http.Request) {
	days := 7
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 || parsed > 365 {
			utils.WriteError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	today := domain.DateOf(time.Now())
	dates, err := h.store.ListFreeDatesThrough(r.Context(), today, today.AddDays(days))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"days": days, "freeDates": dates})
}

func zoneID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid zone id")
		return 0, false
	}
	return int32(id), true
}
