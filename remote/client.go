// Package remote implements the finder's remote collaborators over the
// backend HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/telegraphfinder/finder/finder"
)

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 10 * time.Second

var (
	_ finder.FileService      = filesAPI{}
	_ finder.FolderService    = foldersAPI{}
	_ finder.StructureService = (*Client)(nil)
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Files returns the file-storage collaborator view of the client.
func (c *Client) Files() finder.FileService {
	return filesAPI{c: c}
}

// Folders returns the folder CRUD collaborator view of the client.
func (c *Client) Folders() finder.FolderService {
	return foldersAPI{c: c}
}

// fileEntry is the wire shape of a stored file. Metadata may be missing
// entirely for records written by older backends.
type fileEntry struct {
	StorageKey string        `json:"storageKey"`
	Metadata   *fileMetadata `json:"metadata"`
}

type fileMetadata struct {
	FileName     string    `json:"fileName,omitempty"`
	FileSize     int64     `json:"fileSize,omitempty"`
	Timestamp    time.Time `json:"timestamp,omitempty"`
	ParentFolder string    `json:"parentFolder,omitempty"`
	Liked        bool      `json:"liked,omitempty"`
	MimeType     string    `json:"mimeType,omitempty"`
	URL          string    `json:"url,omitempty"`
}

type filesAPI struct {
	c *Client
}

// List fetches the remote file list, applying defaults for absent
// metadata fields.
func (a filesAPI) List(ctx context.Context) ([]finder.RemoteFile, error) {
	var entries []fileEntry
	if err := a.c.do(ctx, http.MethodGet, "/api/files", nil, &entries); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	files := make([]finder.RemoteFile, 0, len(entries))
	for _, e := range entries {
		if e.StorageKey == "" {
			continue
		}

		md := e.Metadata
		if md == nil {
			md = &fileMetadata{}
		}

		files = append(files, finder.RemoteFile{
			StorageKey: e.StorageKey,
			Name:       md.FileName,
			Size:       md.FileSize,
			Uploaded:   md.Timestamp,
			Parent:     md.ParentFolder,
			Liked:      md.Liked,
			MimeType:   md.MimeType,
			URL:        md.URL,
		})
	}

	return files, nil
}

// Delete removes a stored file. An already-gone record counts as success.
func (a filesAPI) Delete(ctx context.Context, storageKey string) error {
	err := a.c.do(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(storageKey), nil, nil)
	if isNotFound(err) {
		return nil
	}

	return err
}

// Update overwrites a file's metadata.
func (a filesAPI) Update(ctx context.Context, file finder.RemoteFile) error {
	md := fileMetadata{
		FileName:     file.Name,
		FileSize:     file.Size,
		Timestamp:    file.Uploaded,
		ParentFolder: file.Parent,
		Liked:        file.Liked,
		MimeType:     file.MimeType,
		URL:          file.URL,
	}

	return a.c.do(ctx, http.MethodPut, "/api/files/"+url.PathEscape(file.StorageKey), md, nil)
}

type folderPayload struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	ParentID string `json:"parentId,omitempty"`
}

type foldersAPI struct {
	c *Client
}

func (a foldersAPI) Create(ctx context.Context, folder finder.Folder) error {
	payload := folderPayload{
		ID:       folder.ID,
		Name:     folder.Name,
		Color:    folder.Color,
		ParentID: folder.ParentID,
	}

	return a.c.do(ctx, http.MethodPost, "/api/folders", payload, nil)
}

func (a foldersAPI) Update(ctx context.Context, folder finder.Folder) error {
	payload := folderPayload{
		Name:     folder.Name,
		Color:    folder.Color,
		ParentID: folder.ParentID,
	}

	return a.c.do(ctx, http.MethodPut, "/api/folders/"+url.PathEscape(folder.ID), payload, nil)
}

func (a foldersAPI) Delete(ctx context.Context, id string) error {
	err := a.c.do(ctx, http.MethodDelete, "/api/folders/"+url.PathEscape(id), nil, nil)
	if isNotFound(err) {
		return nil
	}

	return err
}

// Structure fetches the serialized tree structure blob.
func (c *Client) Structure(ctx context.Context) ([]byte, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/structure", nil, &raw); err != nil {
		if isNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("fetch structure: %w", err)
	}

	return raw, nil
}

// PutStructure overwrites the serialized tree structure blob.
func (c *Client) PutStructure(ctx context.Context, data []byte) error {
	return c.do(ctx, http.MethodPut, "/api/structure", json.RawMessage(data), nil)
}

// statusError reports a non-2xx response.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
