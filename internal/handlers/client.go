package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/whisperwork/crm/internal/httpx"
	"github.com/whisperwork/crm/internal/services"
	"github.com/whisperwork/crm/internal/validation"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

type ClientHandler struct {
	Svc *services.ClientService
}

func NewClientHandler(svc *services.ClientService) *ClientHandler {
	return &ClientHandler{Svc: svc}
}

type createClientRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

type updateClientRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

type mergeClientsRequest struct {
	PrimaryClientID   uint `json:"primary_client_id"`
	SecondaryClientID uint `json:"secondary_client_id"`
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		httpx.Error(w, http.StatusNotFound, "Client not found", nil)
	case errors.Is(err, services.ErrClientsNotFound):
		httpx.Error(w, http.StatusNotFound, "One or both clients not found", nil)
	case errors.Is(err, services.ErrSameClient):
		httpx.Error(w, http.StatusBadRequest, "Cannot merge a client with itself", nil)
	case errors.Is(err, services.ErrPhoneInUse):
		httpx.Error(w, http.StatusConflict, "Active client with this phone number already exists", nil)
	default:
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func clientID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Create: POST /clients/
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}
	v := make(validation.Violations)
	name := validation.CleanName(req.Name, v)
	phone := validation.NormalizePhone(req.PhoneNumber, v)
	validation.Email(req.Email, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Validation failed", v)
		return
	}
	client, err := h.Svc.Create(services.CreateClientInput{
		Name:        name,
		PhoneNumber: phone,
		Email:       req.Email,
		Address:     req.Address,
		Notes:       req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

// List: GET /clients/?skip&limit&include_archived
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	skip := 0
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			skip = n
		}
	}
	limit := defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPageSize {
			limit = n
		}
	}
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))
	clients, err := h.Svc.List(skip, limit, includeArchived)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, clients)
}

// Get: GET /clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		httpx.Error(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	client, err := h.Svc.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

// Update: PUT /clients/{id} – partial update, absent fields stay untouched
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		httpx.Error(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}
	v := make(validation.Violations)
	in := services.UpdateClientInput{
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if req.Name != nil {
		name := validation.CleanName(*req.Name, v)
		in.Name = &name
	}
	if req.PhoneNumber != nil {
		phone := validation.NormalizePhone(*req.PhoneNumber, v)
		in.PhoneNumber = &phone
	}
	if req.Email != nil {
		validation.Email(*req.Email, v)
	}
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Validation failed", v)
		return
	}
	client, err := h.Svc.Update(id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

// Archive: DELETE /clients/{id} – soft delete
func (h *ClientHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		httpx.Error(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	if err := h.Svc.Archive(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Client archived successfully"})
}

// Merge: POST /clients/merge
func (h *ClientHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeClientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}
	primary, mergedData, err := h.Svc.Merge(req.PrimaryClientID, req.SecondaryClientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":        "Clients merged successfully",
		"primary_client": primary,
		"merged_data":    mergedData,
	})
}

// History: GET /clients/{id}/history – newest first
func (h *ClientHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		httpx.Error(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	logs, err := h.Svc.History(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, logs)
}

// ResendInvoice: POST /clients/{id}/resend-invoice
func (h *ClientHandler) ResendInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		httpx.Error(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	msg, err := h.Svc.ResendInvoice(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": msg})
}

// ResendJobSummary: POST /clients/{id}/resend-job-summary
func (h *ClientHandler) ResendJobSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		httpx.Error(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	msg, err := h.Svc.ResendJobSummary(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": msg})
}

// Search: GET /clients/search/?q&include_archived
func (h *ClientHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httpx.Error(w, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))
	clients, err := h.Svc.Search(q, includeArchived)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, clients)
}
