// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call one service method and shape the response; no
// business rules live here.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/bind"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"github.com/splatmarket/splatmarket/pkg/response"
	"github.com/splatmarket/splatmarket/pkg/validate"
)

// paginate reads the skip/limit query parameters.
func paginate(r *http.Request) orm.Pagination {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return orm.Page(skip, limit)
}

// uintParam parses a chi URL parameter as an unsigned id.
func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// fail translates service sentinels into HTTP responses. notFoundMsg is the
// fixed detail string for 404s.
func fail(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w, notFoundMsg)
	case errors.Is(err, services.ErrConflict):
		response.Conflict(w, "Already registered")
	case errors.Is(err, services.ErrUnauthorized):
		response.Unauthorized(w)
	case errors.Is(err, services.ErrUnavailable):
		response.Unavailable(w, "Service temporarily unavailable")
	default:
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// bindJSON decodes and validates, writing the error response itself.
// Returns false when the handler should stop.
func bindJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := bind.JSON(r, dest); err != nil {
		var verrs validate.Errors
		if errors.As(err, &verrs) {
			response.ValidationError(w, verrs)
		} else {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		}
		return false
	}
	return true
}
