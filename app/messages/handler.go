package messages

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/models"
)

const maxBodyLength = 5000

type MessageProvider interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, offset, limit int, status models.MessageStatus) ([]models.Message, int64, error)
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	UpdateMessageStatus(ctx context.Context, id uint, status models.MessageStatus) error
	DeleteMessage(ctx context.Context, id uint) error
}

type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Message struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ListResponse struct {
	Total    int       `json:"total"`
	Messages []Message `json:"messages"`
}

type MessageHandler struct {
	repo MessageProvider
}

func NewMessageHandler(r MessageProvider) *MessageHandler {
	return &MessageHandler{repo: r}
}

// HandleCreate stores a contact-form submission.
func (h *MessageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input MessageInput
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	msg := &models.Message{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   strings.TrimSpace(input.Phone),
		Subject: strings.TrimSpace(input.Subject),
		Body:    strings.TrimSpace(input.Body),
		Status:  models.MessageNew,
	}
	if problems := validate(msg); len(problems) > 0 {
		render.Invalid(w, problems)
		return
	}

	if err := h.repo.CreateMessage(r.Context(), msg); err != nil {
		render.Error(w, http.StatusInternalServerError, "Failed to send message")
		return
	}
	render.JSON(w, http.StatusCreated, toResponse(msg))
}

func (h *MessageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := render.Page(r)
	status := models.MessageStatus(strings.ToLower(r.URL.Query().Get("status")))
	if status != "" && !status.Valid() {
		render.Error(w, http.StatusBadRequest, "Unknown message status")
		return
	}

	res, total, err := h.repo.ListMessages(r.Context(), offset, limit, status)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "Failed to retrieve messages")
		return
	}

	out := make([]Message, len(res))
	for i := range res {
		out[i] = toResponse(&res[i])
	}
	render.JSON(w, http.StatusOK, ListResponse{Total: int(total), Messages: out})
}

// HandleGet returns one message and marks it read when it was new.
func (h *MessageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}

	msg, err := h.repo.GetMessage(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Failed to retrieve message")
		return
	}
	if msg.Status == models.MessageNew {
		if err := h.repo.UpdateMessageStatus(r.Context(), id, models.MessageRead); err != nil {
			writeRepoError(w, err, "Failed to retrieve message")
			return
		}
		msg.Status = models.MessageRead
	}
	render.JSON(w, http.StatusOK, toResponse(msg))
}

func (h *MessageHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	status := models.MessageStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !status.Valid() {
		render.Invalid(w, []string{"status must be new, read or archived"})
		return
	}

	if err := h.repo.UpdateMessageStatus(r.Context(), id, status); err != nil {
		writeRepoError(w, err, "Failed to update message")
		return
	}
	render.JSON(w, http.StatusOK, map[string]interface{}{"id": id, "status": status})
}

func (h *MessageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteMessage(r.Context(), id); err != nil {
		writeRepoError(w, err, "Failed to delete message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validate(msg *models.Message) []string {
	var problems []string
	if msg.Name == "" {
		problems = append(problems, "name is required")
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		problems = append(problems, "a valid email is required")
	}
	if msg.Subject == "" {
		problems = append(problems, "subject is required")
	}
	if msg.Body == "" {
		problems = append(problems, "body is required")
	} else if utf8.RuneCountInString(msg.Body) > maxBodyLength {
		problems = append(problems, "body is too long")
	}
	return problems
}

func messageID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		render.Error(w, http.StatusBadRequest, "Invalid message id")
		return 0, false
	}
	return uint(id), true
}

func writeRepoError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, models.ErrMessageNotFound) {
		render.Error(w, http.StatusNotFound, "Message not found")
		return
	}
	render.Error(w, http.StatusInternalServerError, fallback)
}

func toResponse(m *models.Message) Message {
	return Message{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Body:      m.Body,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
	}
}
