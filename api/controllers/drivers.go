package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quickplate/quickplate-backend/api/responses"
	"github.com/quickplate/quickplate-backend/api/validators"
	"github.com/quickplate/quickplate-backend/internal/drivers"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
)

type registerDriverRequest struct {
	DriverID      string `json:"driver_id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	VehicleType   string `json:"vehicle_type" validate:"required"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
	WorkingCity   string `json:"working_city" validate:"required"`
}

type updateDriverRequest struct {
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	VehicleType   *string `json:"vehicle_type,omitempty"`
	VehicleNumber *string `json:"vehicle_number,omitempty"`
	WorkingCity   *string `json:"working_city,omitempty"`
}

// DriverRegister adds a courier to the fleet.
func DriverRegister(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		var body registerDriverRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Register(r.Context(), drivers.RegisterDriverInput{
			DriverID:      body.DriverID,
			Name:          body.Name,
			Address:       body.Address,
			Phone:         body.Phone,
			VehicleType:   enums.VehicleType(body.VehicleType),
			VehicleNumber: body.VehicleNumber,
			WorkingCity:   body.WorkingCity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// DriverDetail returns one courier by external id.
func DriverDetail(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		record, err := svc.GetByDriverID(r.Context(), chi.URLParam(r, "driverId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// DriverList filters the fleet by working city.
func DriverList(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		records, err := svc.ListByCity(r.Context(), strings.TrimSpace(r.URL.Query().Get("city")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// DriverUpdate applies a partial courier update.
func DriverUpdate(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		var body updateDriverRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := drivers.UpdateDriverInput{
			Name:          body.Name,
			Address:       body.Address,
			Phone:         body.Phone,
			VehicleNumber: body.VehicleNumber,
			WorkingCity:   body.WorkingCity,
		}
		if body.VehicleType != nil {
			vehicleType := enums.VehicleType(*body.VehicleType)
			input.VehicleType = &vehicleType
		}

		record, err := svc.Update(r.Context(), chi.URLParam(r, "driverId"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// DriverRemove retires a courier from the fleet.
func DriverRemove(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "driverId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// DriverAssignOrder hands an order to a courier.
func DriverAssignOrder(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AssignOrder(r.Context(), chi.URLParam(r, "driverId"), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// DriverPickupOrder records the pickup and moves the order out for delivery.
func DriverPickupOrder(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.MarkPickedUp(r.Context(), chi.URLParam(r, "driverId"), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// DriverDeliverOrder records the drop-off and completes the order.
func DriverDeliverOrder(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.MarkDelivered(r.Context(), chi.URLParam(r, "driverId"), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// DriverAssignments lists a courier's delivery history, newest first.
func DriverAssignments(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		records, err := svc.ListAssignments(r.Context(), chi.URLParam(r, "driverId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}
