package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/iudanet/gophadmin/internal/validation"
	"github.com/iudanet/gophadmin/pkg/api"
)

// multipartOverhead запас на заголовки multipart сверх размера файла
const multipartOverhead int64 = 1 << 20

// StaticHandler раздает и принимает статические файлы из каталога
type StaticHandler struct {
	logger *slog.Logger
	dir    string
}

// NewStaticHandler создает handler статических файлов
func NewStaticHandler(logger *slog.Logger, dir string) *StaticHandler {
	return &StaticHandler{logger: logger, dir: dir}
}

// Lookup обрабатывает GET /static/lookup?fileName=
// Отдает файл как есть; отсутствие файла - 404, чтобы клиент перешел к следующей реплике.
func (h *StaticHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("fileName")
	if err := validation.FileName(name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := os.Open(filepath.Join(h.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to open static file", slog.String("file", name), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, name, info.ModTime(), f)
}

// Upload обрабатывает POST /static/upload (multipart, поле "file")
func (h *StaticHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxUploadSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, h.logger, api.CodeBadRequest, "file is too large")
			return
		}
		WriteError(w, h.logger, api.CodeBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}
	defer file.Close()

	if err := validation.UploadSize(header.Size); err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}
	name := filepath.Base(header.Filename)
	if err := validation.FileName(name); err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}

	size, err := h.store(name, file)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store upload", slog.String("file", name), slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "file uploaded", slog.String("file", name), slog.Int64("size", size))
	WriteData(w, h.logger, api.UploadResponse{FileName: name, Size: size})
}

// store пишет файл во временный и переименовывает, чтобы Lookup не видел частичный файл
func (h *StaticHandler) store(name string, src io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(h.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, src)
	if err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(h.dir, name)); err != nil {
		return 0, fmt.Errorf("failed to move file: %w", err)
	}
	return size, nil
}
