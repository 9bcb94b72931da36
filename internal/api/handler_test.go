package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// markerRecolorer returns a fixed marker and records its calls, so tests can
// tell whether the recolor path ran
type markerRecolorer struct {
	calls  int
	marker []byte
}

func (r *markerRecolorer) Recolor(src []byte, targetHex string) []byte {
	r.calls++
	return r.marker
}

func recolorRouter(rec Recolorer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{
		recolorer:  rec,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	router := gin.New()
	router.POST("/api/v1/images/recolor", h.recolorImage)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecolorImageMissingFields(t *testing.T) {
	rec := &markerRecolorer{marker: []byte("recolored")}
	router := recolorRouter(rec)

	w := postJSON(t, router, "/api/v1/images/recolor", gin.H{"imageUrl": "data:image/png;base64,AA=="})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/api/v1/images/recolor", gin.H{"hexColor": "#FF0000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, rec.calls)
}

func TestRecolorImageRunsEngine(t *testing.T) {
	rec := &markerRecolorer{marker: []byte("recolored")}
	router := recolorRouter(rec)

	src := []byte("mockup-bytes")
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(src)

	w := postJSON(t, router, "/api/v1/images/recolor", gin.H{"imageUrl": uri, "hexColor": "#1E90FF"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("recolored"), w.Body.Bytes())
	assert.Equal(t, 1, rec.calls)
}

func TestRecolorImageWhiteBypassServesOriginal(t *testing.T) {
	rec := &markerRecolorer{marker: []byte("recolored")}
	router := recolorRouter(rec)

	src := []byte("white-base-mockup")
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(src)

	w := postJSON(t, router, "/api/v1/images/recolor", gin.H{"imageUrl": uri, "hexColor": "#FFFFFF"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, src, w.Body.Bytes())
	assert.Zero(t, rec.calls, "pure white must skip the recolor pass")
}

func TestRecolorImageFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	rec := &markerRecolorer{marker: []byte("recolored")}
	router := recolorRouter(rec)

	w := postJSON(t, router, "/api/v1/images/recolor", gin.H{"imageUrl": srv.URL + "/gone.png", "hexColor": "#FF0000"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Zero(t, rec.calls)
}
