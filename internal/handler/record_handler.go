package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"datavault-server/internal/domain"
	"datavault-server/internal/middleware"
	"datavault-server/internal/repository"
	"datavault-server/internal/service"
	"datavault-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type RecordHandler struct {
	service  *service.RecordService
	validate *validator.Validate
}

func NewRecordHandler(service *service.RecordService) *RecordHandler {
	return &RecordHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	record, err := h.service.Create(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Data creation failed")
		return
	}

	response.Created(w, map[string]interface{}{
		"message": "Data created successfully!",
		"data":    record,
	})
}

func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	records, err := h.service.List(userID)
	if err != nil {
		response.InternalError(w, "Failed to fetch data")
		return
	}

	response.Success(w, map[string]interface{}{
		"data": records,
	})
}

func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	recordID := mux.Vars(r)["id"]
	if recordID == "" {
		response.BadRequest(w, "Record ID is required")
		return
	}

	var req domain.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	userID := middleware.GetUserID(r)

	record, err := h.service.Update(userID, recordID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(w, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			response.NotFound(w, "Data not found")
		default:
			response.InternalError(w, "Update failed")
		}
		return
	}

	response.Success(w, map[string]interface{}{
		"message":     "Data updated successfully!",
		"updatedData": record,
	})
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	recordID := mux.Vars(r)["id"]
	if recordID == "" {
		response.BadRequest(w, "Record ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	if err := h.service.Delete(userID, recordID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(w, "Data not found")
			return
		}
		response.InternalError(w, "Delete failed")
		return
	}

	response.Success(w, map[string]string{
		"message": "Data deleted successfully!",
	})
}
