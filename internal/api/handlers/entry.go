package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/faqd/internal/api"
	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/pagination"
	"github.com/cloo-solutions/faqd/internal/service"
)

type EntryService interface {
	List(ctx context.Context) ([]*domain.Entry, error)
	ListPage(ctx context.Context, input service.ListEntriesInput) (*service.ListEntriesOutput, error)
	Get(ctx context.Context, id string) (*domain.Entry, error)
	Create(ctx context.Context, input service.CreateEntryInput) (*domain.Entry, error)
	Update(ctx context.Context, input service.UpdateEntryInput) (*domain.Entry, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type EntryHandler struct {
	svc EntryService
}

func NewEntryHandler(svc EntryService) *EntryHandler {
	return &EntryHandler{svc: svc}
}

// EntryRequest is the body of create and update. The Portuguese field names
// of the first API version are still accepted.
type EntryRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Pergunta string `json:"pergunta,omitempty"`
	Resposta string `json:"resposta,omitempty"`
}

func (r *EntryRequest) question() string {
	if r.Question != "" {
		return r.Question
	}
	return r.Pergunta
}

func (r *EntryRequest) answer() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.Resposta
}

type EntryResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Embedding []float32 `json:"embedding"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

type DeleteEntryResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

func entryToResponse(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:        e.ID,
		Question:  e.Question,
		Answer:    e.Answer,
		Embedding: e.Embedding,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func entriesToResponse(entries []*domain.Entry) []*EntryResponse {
	items := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryToResponse(e))
	}
	return items
}

// List returns every entry, or one page when limit or cursor is given.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cursor := query.Get("cursor")

	limit, err := pagination.ParseLimit(query.Get("limit"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if limit == 0 && cursor == "" {
		entries, err := h.svc.List(r.Context())
		if err != nil {
			api.HandleError(w, r, err)
			return
		}
		api.Success(w, http.StatusOK, entriesToResponse(entries))
		return
	}

	out, err := h.svc.ListPage(r.Context(), service.ListEntriesInput{Cursor: cursor, Limit: limit})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, pagination.Page[*EntryResponse]{
		Items:   entriesToResponse(out.Items),
		Cursor:  out.Cursor,
		HasMore: out.HasMore,
	})
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, entryToResponse(entry))
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.Create(r.Context(), service.CreateEntryInput{
		Question: req.question(),
		Answer:   req.answer(),
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusCreated, entryToResponse(entry))
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.Update(r.Context(), service.UpdateEntryInput{
		ID:       id,
		Question: req.question(),
		Answer:   req.answer(),
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, entryToResponse(entry))
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, DeleteEntryResponse{
		Message: "faq entry deleted",
		Deleted: deleted,
	})
}
