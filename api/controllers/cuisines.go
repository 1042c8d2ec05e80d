package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickplate/quickplate-backend/api/responses"
	"github.com/quickplate/quickplate-backend/api/validators"
	"github.com/quickplate/quickplate-backend/internal/cuisines"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
)

type createCuisineRequest struct {
	Name string `json:"name" validate:"required"`
}

// CuisineCreate adds a taxonomy entry.
func CuisineCreate(svc cuisines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cuisine service unavailable"))
			return
		}

		var body createCuisineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// CuisineList returns the full taxonomy, name ordered.
func CuisineList(svc cuisines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cuisine service unavailable"))
			return
		}

		records, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// CuisineDelete removes a taxonomy entry.
func CuisineDelete(svc cuisines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cuisine service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "cuisineId"), "cuisineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
