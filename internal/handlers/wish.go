package handlers

import (
	"Wishwall/internal/service"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes — лимит тела запроса к API пожеланий
const maxBodyBytes = 64 << 10

// WishHandler обрабатывает API гостевой книги.
type WishHandler struct {
	WishService *service.WishService
	Logger      *zap.SugaredLogger
}

// NewWishHandler создаёт хендлер пожеланий
func NewWishHandler(wishService *service.WishService, logger *zap.SugaredLogger) *WishHandler {
	return &WishHandler{WishService: wishService, Logger: logger}
}

// CreateRequest — тело POST /api/wishes
type CreateRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

// ReplyRequest — тело PUT /api/wishes
type ReplyRequest struct {
	ID       int64  `json:"id"`
	Reply    string `json:"reply"`
	Password string `json:"password"`
}

// RemoveRequest — тело DELETE /api/wishes
type RemoveRequest struct {
	ID       int64  `json:"id"`
	Password string `json:"password"`
}

// List отдаёт все пожелания
func (h *WishHandler) List(w http.ResponseWriter, r *http.Request) {
	wishes, err := h.WishService.List(r.Context())
	if err != nil {
		h.Logger.Errorw("List: service error", "error", err)
		writeError(w, statusFor(err), "failed to load wishes")
		return
	}
	writeJSON(w, http.StatusOK, wishes)
}

// Get отдаёт одно пожелание по id из пути
func (h *WishHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	wish, err := h.WishService.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "Get", err)
		return
	}
	writeJSON(w, http.StatusOK, wish)
}

// Create добавляет пожелание
func (h *WishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !h.decode(w, r, "Create", &req) {
		return
	}

	wish, err := h.WishService.Create(r.Context(), service.CreateInput{
		Name:     req.Name,
		Location: req.Location,
		Message:  req.Message,
	})
	if err != nil {
		h.respondError(w, "Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, wish)
}

// Reply сохраняет ответ администратора
func (h *WishHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if !h.decode(w, r, "Reply", &req) {
		return
	}

	wish, err := h.WishService.Reply(r.Context(), service.ReplyInput{
		ID:       req.ID,
		Reply:    req.Reply,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, "Reply", err)
		return
	}
	writeJSON(w, http.StatusOK, wish)
}

// Remove удаляет пожелание
func (h *WishHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req RemoveRequest
	if !h.decode(w, r, "Remove", &req) {
		return
	}

	err := h.WishService.Remove(r.Context(), service.RemoveInput{
		ID:       req.ID,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, "Remove", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *WishHandler) decode(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Logger.Warnw(op+": invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

func (h *WishHandler) respondError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Errorw(op+": service error", "error", err)
	} else {
		h.Logger.Warnw(op+": rejected", "status", status, "error", err)
	}
	writeError(w, status, publicMessage(err))
}
