package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/roomservice/internal/models"
	"github.com/Lixing-Zhang/roomservice/internal/repository"
	"github.com/Lixing-Zhang/roomservice/internal/service"
)

// MenuHandler handles menu and services catalog requests
type MenuHandler struct {
	catalog     *service.CatalogService
	uploadDir   string
	maxUploadMB int
	logger      *slog.Logger
}

// NewMenuHandler creates a new menu handler saving images under uploadDir
func NewMenuHandler(catalog *service.CatalogService, uploadDir string, maxUploadMB int, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		catalog:     catalog,
		uploadDir:   uploadDir,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// ListMenu handles GET /api/menu
func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListMenu(r.Context())
	if err != nil {
		h.logger.Error("failed to list menu", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, items, h.logger)
}

// ListServices handles GET /api/services
func (h *MenuHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, services, h.logger)
}

// AddItem handles POST /api/menu/add (multipart form with an "image" file)
func (h *MenuHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	limit := int64(h.maxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		h.logger.Warn("failed to parse menu form", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid form data.", h.logger)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			WriteError(w, http.StatusBadRequest, "Image is required.", h.logger)
			return
		}
		h.logger.Warn("failed to read uploaded image", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid image upload.", h.logger)
		return
	}
	defer file.Close()

	stored, err := h.saveUpload(file, header)
	if err != nil {
		h.logger.Error("failed to store uploaded image", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to add item.", h.logger)
		return
	}

	item, err := h.catalog.AddItem(r.Context(), models.NewMenuItem{
		Name:     r.FormValue("name"),
		NameAm:   r.FormValue("name_am"),
		Category: r.FormValue("category"),
		Price:    r.FormValue("price"),
		Image:    "uploads/" + stored,
	})
	if err != nil {
		_ = os.Remove(filepath.Join(h.uploadDir, stored))

		switch {
		case errors.Is(err, service.ErrImageRequired):
			WriteError(w, http.StatusBadRequest, "Image is required.", h.logger)
		case errors.Is(err, service.ErrInvalidItem):
			WriteError(w, http.StatusBadRequest, "Name is required.", h.logger)
		case errors.Is(err, service.ErrInvalidPrice):
			WriteError(w, http.StatusBadRequest, "Price must be a non-negative number.", h.logger)
		default:
			h.logger.Error("failed to add menu item", "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to add item.", h.logger)
		}
		return
	}

	h.logger.Debug("menu item stored", "item_id", item.ID, "image", item.Image)
	WriteSuccess(w, "", h.logger)
}

// EditItem handles POST /api/menu/edit
func (h *MenuHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	var patch models.MenuItemPatch

	if err := decodeJSON(w, r, &patch); err != nil {
		h.logger.Warn("failed to decode menu edit", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.logger)
		return
	}

	if _, err := h.catalog.EditItem(r.Context(), patch); err != nil {
		h.writeCatalogError(w, err, "Failed to update item.")
		return
	}

	WriteSuccess(w, "", h.logger)
}

// SetAvailability handles POST /api/menu/availability
func (h *MenuHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req models.AvailabilityRequest

	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode availability change", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.logger)
		return
	}

	if _, err := h.catalog.SetAvailability(r.Context(), req); err != nil {
		h.writeCatalogError(w, err, "Failed to update availability.")
		return
	}

	WriteSuccess(w, "", h.logger)
}

// DeleteItem handles POST /api/menu/delete
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteItemRequest

	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode menu delete", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.logger)
		return
	}

	if err := h.catalog.DeleteItem(r.Context(), req.ID); err != nil {
		h.writeCatalogError(w, err, "Failed to delete item.")
		return
	}

	WriteSuccess(w, "", h.logger)
}

func (h *MenuHandler) writeCatalogError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		WriteError(w, http.StatusNotFound, "Item not found.", h.logger)
	case errors.Is(err, service.ErrInvalidItem):
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
	case errors.Is(err, service.ErrInvalidPrice):
		WriteError(w, http.StatusBadRequest, "Price must be a non-negative number.", h.logger)
	default:
		h.logger.Error("menu update failed", "error", err)
		WriteError(w, http.StatusInternalServerError, fallback, h.logger)
	}
}

// saveUpload writes the uploaded file under a generated name and returns that name
func (h *MenuHandler) saveUpload(src multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(header.Filename)))
	name := uuid.New().String() + ext

	dst, err := os.OpenFile(filepath.Join(h.uploadDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}

	return name, nil
}
