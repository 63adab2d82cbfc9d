package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/usecase"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/utils"
)

// ShippingHandler serves the checkout-facing shipping endpoints. Zone
// lookup failures never produce an error response here; the usecase
// degrades to the paid catalog so checkout can proceed.
type ShippingHandler struct {
	shippingUC *usecase.ShippingUsecase
}

func NewShippingHandler(uc *usecase.ShippingUsecase) *ShippingHandler {
	return &ShippingHandler{shippingUC: uc}
}

// GET /api/v1/shipping/options?lat=&lon=&orderTotal=
func (h *ShippingHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	lat, lon, orderTotal, ok := parseShippingQuery(w, r)
	if !ok {
		return
	}

	options, err := h.shippingUC.ShippingOptionsFor(r.Context(), lat, lon, orderTotal)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCoordinates) {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to compute shipping options")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"options": options})
}

// GET /api/v1/shipping/fee?optionId=&lat=&lon=&orderTotal=
//
// The option list is recomputed server-side and the fee resolved against
// it; a client-supplied price is never trusted.
func (h *ShippingHandler) GetFee(w http.ResponseWriter, r *http.Request) {
	optionID := r.URL.Query().Get("optionId")
	if optionID == "" {
		utils.WriteError(w, http.StatusBadRequest, "optionId is required")
		return
	}

	lat, lon, orderTotal, ok := parseShippingQuery(w, r)
	if !ok {
		return
	}

	fee, option, err := h.shippingUC.FeeForSelection(r.Context(), optionID, lat, lon, orderTotal)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCoordinates) {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to calculate delivery fee")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"fee":    fee,
		"option": option,
	})
}

func parseShippingQuery(w http.ResponseWriter, r *http.Request) (lat, lon, orderTotal float64, ok bool) {
	q := r.URL.Query()

	latStr := q.Get("lat")
	lonStr := q.Get("lon")
	if latStr == "" || lonStr == "" {
		utils.WriteError(w, http.StatusBadRequest, "lat and lon are required")
		return 0, 0, 0, false
	}

	var err error
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "lat must be a valid latitude")
		return 0, 0, 0, false
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "lon must be a valid longitude")
		return 0, 0, 0, false
	}

	if totalStr := q.Get("orderTotal"); totalStr != "" {
		orderTotal, err = strconv.ParseFloat(totalStr, 64)
		if err != nil || orderTotal < 0 {
			utils.WriteError(w, http.StatusBadRequest, "orderTotal must be a non-negative number")
			return 0, 0, 0, false
		}
	}

	return lat, lon, orderTotal, true
}
