package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/telegraphfinder/finder/finder"
	"github.com/telegraphfinder/finder/notify"
	"github.com/telegraphfinder/finder/store"
)

const maxBodySize = 1 << 20

type Handler struct {
	model  *finder.Model
	store  *store.Store
	center *notify.Center
}

func NewHandler(model *finder.Model, st *store.Store, center *notify.Center) *Handler {
	return &Handler{model: model, store: st, center: center}
}

// View returns the model's projection of a folder or virtual bucket.
func (h Handler) View(w http.ResponseWriter, r *http.Request) ([]finder.Node, error) {
	folderID := chi.URLParam(r, "id")

	return h.model.ListChildren(folderID), nil
}

// Search runs a global name search over the model.
func (h Handler) Search(w http.ResponseWriter, r *http.Request) ([]finder.Node, error) {
	return h.model.Search(r.URL.Query().Get("q")), nil
}

// Stats returns namespace totals.
func (h Handler) Stats(w http.ResponseWriter, r *http.Request) (finder.Stats, error) {
	return h.model.Stats(), nil
}

// Notifications returns the transient-notification feed.
func (h Handler) Notifications(w http.ResponseWriter, r *http.Request) ([]notify.Notification, error) {
	return h.center.List(), nil
}

// FileList serves the file listing collaborator contract.
func (h Handler) FileList(w http.ResponseWriter, r *http.Request) ([]store.FileRecord, error) {
	files, err := h.store.ListFiles(r.Context())
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	if files == nil {
		files = []store.FileRecord{}
	}

	return files, nil
}

// FileUpdate overwrites a file's metadata blob.
func (h Handler) FileUpdate(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
	key, err := storageKey(r)
	if err != nil {
		return nil, err
	}

	var metadata map[string]interface{}
	if err := decodeBody(r, &metadata); err != nil {
		return nil, err
	}

	if err := h.store.UpsertFile(r.Context(), key, metadata); err != nil {
		return nil, fmt.Errorf("upsert file: %w", err)
	}

	return nil, nil
}

// FileDelete serves the file delete collaborator contract.
func (h Handler) FileDelete(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
	key, err := storageKey(r)
	if err != nil {
		return nil, err
	}

	existed, err := h.store.DeleteFile(r.Context(), key)
	if err != nil {
		return nil, fmt.Errorf("delete file: %w", err)
	}

	if !existed {
		return nil, ErrNotFound
	}

	return nil, nil
}

type folderPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	ParentID string `json:"parentId"`
}

// FolderCreate inserts a folder record, assigning an id when the client
// did not send one.
func (h Handler) FolderCreate(w http.ResponseWriter, r *http.Request) (*store.FolderRecord, error) {
	var payload folderPayload
	if err := decodeBody(r, &payload); err != nil {
		return nil, err
	}

	if payload.Name == "" {
		return nil, fmt.Errorf("%w: folder name is required", ErrBadRequest)
	}

	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}
	if payload.ParentID == "" {
		payload.ParentID = finder.RootID
	}

	record, err := h.store.CreateFolder(r.Context(), store.FolderRecord{
		ID:       payload.ID,
		Name:     payload.Name,
		Color:    payload.Color,
		ParentID: payload.ParentID,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("%w: folder %q already exists", ErrConflict, payload.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	return record, nil
}

// FolderUpdate overwrites a folder record.
func (h Handler) FolderUpdate(w http.ResponseWriter, r *http.Request) (*store.FolderRecord, error) {
	id := chi.URLParam(r, "id")

	var payload folderPayload
	if err := decodeBody(r, &payload); err != nil {
		return nil, err
	}

	if payload.Name == "" {
		return nil, fmt.Errorf("%w: folder name is required", ErrBadRequest)
	}
	if payload.ParentID == "" {
		payload.ParentID = finder.RootID
	}

	record, err := h.store.UpdateFolder(r.Context(), store.FolderRecord{
		ID:       id,
		Name:     payload.Name,
		Color:    payload.Color,
		ParentID: payload.ParentID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("%w: folder %q already exists", ErrConflict, payload.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}

	return record, nil
}

// FolderDelete removes a folder record.
func (h Handler) FolderDelete(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
	existed, err := h.store.DeleteFolder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, fmt.Errorf("delete folder: %w", err)
	}

	if !existed {
		return nil, ErrNotFound
	}

	return nil, nil
}

// StructureGet serves the persisted tree-structure blob.
func (h Handler) StructureGet(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	value, err := h.store.GetValue(r.Context(), "structure")
	if err != nil {
		return nil, fmt.Errorf("read structure: %w", err)
	}

	if value == nil {
		return nil, ErrNotFound
	}

	return value, nil
}

// StructurePut overwrites the persisted tree-structure blob.
func (h Handler) StructurePut(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %s", ErrBadRequest, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: structure must be valid JSON", ErrBadRequest)
	}

	if err := h.store.PutValue(r.Context(), "structure", data); err != nil {
		return nil, fmt.Errorf("write structure: %w", err)
	}

	return nil, nil
}

func storageKey(r *http.Request) (string, error) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		return "", fmt.Errorf("%w: invalid storage key", ErrBadRequest)
	}

	return key, nil
}

func decodeBody(r *http.Request, to any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(to); err != nil {
		return fmt.Errorf("%w: decode body: %s", ErrBadRequest, err)
	}

	return nil
}
