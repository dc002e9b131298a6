package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/pocketorg/organizer/internal/logging"
	"github.com/pocketorg/organizer/internal/model"
	"github.com/pocketorg/organizer/internal/server/attachments"
	"github.com/pocketorg/organizer/internal/server/syncstore"
	"github.com/pocketorg/organizer/internal/server/users"
	"github.com/pocketorg/organizer/internal/shared"
)

// Handlers bundles the HTTP endpoints over the server services.
type Handlers struct {
	logger      logging.Logger
	users       *users.Service
	sync        *syncstore.Service
	attachments *attachments.Service
}

func NewHandlers(logger logging.Logger, us *users.Service, ss *syncstore.Service, as *attachments.Service) *Handlers {
	return &Handlers{logger: logger, users: us, sync: ss, attachments: as}
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.users.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrorInvalidLoginFormat), errors.Is(err, shared.ErrorInvalidPasswordFormat):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, shared.ErrorLoginAlreadyExists):
			respondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error(r.Context(), "register failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.users.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrorInvalidLoginPassword) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error(r.Context(), "login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}

type pushRequest struct {
	Ops []model.QueueRecord `json:"ops"`
}

func (h *Handlers) Push(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sync.ApplyOps(r.Context(), UserID(r), req.Ops); err != nil {
		switch {
		case errors.Is(err, shared.ErrorUnknownEntity), errors.Is(err, shared.ErrorInvalidOp):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error(r.Context(), "push failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"applied": len(req.Ops)})
}

type pullResponse struct {
	Changes map[model.Entity][]model.Record `json:"changes"`
}

func (h *Handlers) Pull(w http.ResponseWriter, r *http.Request) {
	since := int64(0)
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid since parameter")
			return
		}
		since = parsed
	}

	changes, err := h.sync.ChangesSince(r.Context(), UserID(r), since)
	if err != nil {
		h.logger.Error(r.Context(), "pull failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, pullResponse{Changes: changes})
}

type presignPutResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (h *Handlers) PresignPut(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.attachments.PresignPut(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "presign put failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, presignPutResponse{Key: key, URL: url})
}

type presignGetResponse struct {
	URL string `json:"url"`
}

func (h *Handlers) PresignGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing key parameter")
		return
	}

	url, err := h.attachments.PresignGet(r.Context(), key)
	if err != nil {
		h.logger.Error(r.Context(), "presign get failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, presignGetResponse{URL: url})
}
