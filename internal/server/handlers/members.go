package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/internal/server/storage"
	"github.com/iudanet/gophadmin/internal/validation"
	"github.com/iudanet/gophadmin/pkg/api"
)

// MemberHandler обрабатывает запросы /user/*
type MemberHandler struct {
	logger  *slog.Logger
	storage storage.MemberStorage
	now     func() time.Time
}

// NewMemberHandler создает новый handler участников
func NewMemberHandler(logger *slog.Logger, s storage.MemberStorage) *MemberHandler {
	return &MemberHandler{
		logger:  logger,
		storage: s,
		now:     time.Now,
	}
}

// List обрабатывает GET /user/getAll
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.storage.ListMembers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list members", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}
	WriteData(w, h.logger, members)
}

// Save обрабатывает POST /user/save
func (h *MemberHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}

	name, err := validation.MemberName(req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid member name", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}

	member := &models.Member{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: h.now().UTC(),
	}
	if err := h.storage.CreateMember(ctx, member); err != nil {
		h.logger.ErrorContext(ctx, "failed to create member", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "member created", slog.String("member_id", member.ID))
	WriteData(w, h.logger, member)
}

// Update обрабатывает POST /user/update
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.UpdateMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}
	if req.ID == "" {
		WriteError(w, h.logger, api.CodeBadRequest, "id is required")
		return
	}
	name, err := validation.MemberName(req.Name)
	if err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}

	member := &models.Member{ID: req.ID, Name: name}
	if err := h.storage.UpdateMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrMemberNotFound) {
			WriteError(w, h.logger, api.CodeNotFound, "member not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to update member", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "member updated", slog.String("member_id", member.ID))
	WriteData(w, h.logger, member)
}

// Delete обрабатывает DELETE /user/delete/{id}
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, h.logger, api.CodeBadRequest, "id is required")
		return
	}

	if err := h.storage.DeleteMember(ctx, id); err != nil {
		if errors.Is(err, storage.ErrMemberNotFound) {
			WriteError(w, h.logger, api.CodeNotFound, "member not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete member", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "member deleted", slog.String("member_id", id))
	WriteData(w, h.logger, nil)
}
