package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telegraphfinder/finder/config"
	"github.com/telegraphfinder/finder/finder"
	"github.com/telegraphfinder/finder/notify"
)

func newTestRouter(t *testing.T) (http.Handler, *finder.Model, *notify.Center) {
	t.Helper()

	model := finder.New(finder.Options{})
	t.Cleanup(model.Close)
	model.Initialize(context.Background())

	center := notify.NewCenter()

	return NewRouter(config.Config{}, model, nil, center), model, center
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

func TestRouter_View(t *testing.T) {
	router, model, _ := newTestRouter(t)

	folder, err := model.CreateFolder(context.Background(), "Photos", "", "")
	require.NoError(t, err)
	_, err = model.AddFile(context.Background(), finder.File{ID: "k1", Name: "cat.jpg", ParentID: folder.ID})
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/api/view/root")
	require.Equal(t, http.StatusOK, rec.Code)

	var nodes []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
	require.Len(t, nodes, 1)
	require.Equal(t, "Photos", nodes[0]["name"])

	rec = doRequest(t, router, http.MethodGet, "/api/view/"+folder.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
	require.Len(t, nodes, 1)
	require.Equal(t, "cat.jpg", nodes[0]["name"])

	rec = doRequest(t, router, http.MethodGet, "/api/view/images")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
	require.Len(t, nodes, 1)
}

func TestRouter_Search(t *testing.T) {
	router, model, _ := newTestRouter(t)

	_, err := model.AddFile(context.Background(), finder.File{ID: "k1", Name: "report.pdf"})
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/api/search?q=repo")
	require.Equal(t, http.StatusOK, rec.Code)

	var nodes []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
	require.Len(t, nodes, 1)
	require.Equal(t, "report.pdf", nodes[0]["name"])
}

func TestRouter_Stats(t *testing.T) {
	router, model, _ := newTestRouter(t)

	_, err := model.AddFile(context.Background(), finder.File{ID: "k1", Name: "a.jpg", Size: 10})
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats finder.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.Files)
	require.Equal(t, int64(10), stats.TotalSize)
}

func TestRouter_Notifications(t *testing.T) {
	router, _, center := newTestRouter(t)

	center.Warn("sync issue")

	rec := doRequest(t, router, http.MethodGet, "/api/notifications")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []notify.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "sync issue", items[0].Message)
}

func TestRouter_StoreRoutesNeedStore(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, target := range []string{"/api/files", "/api/structure"} {
		rec := doRequest(t, router, http.MethodGet, target)
		require.Equal(t, http.StatusNotFound, rec.Code, "target: %s", target)
	}
}

func TestRouter_Index(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<html")
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodOptions, "/api/view/root")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
