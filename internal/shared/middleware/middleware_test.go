package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbuddy-backend/internal/shared/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecovery_PanicReturnsStandardEnvelope(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("handler blew up")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
	assert.Equal(t, "Something went wrong", body.Error.Message)
	assert.NotContains(t, w.Body.String(), "handler blew up")
}

func TestRecovery_HealthyRequestPassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/ok", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogger_RecordsRequestFields(t *testing.T) {
	var buf strings.Builder
	orig := zlog.Logger
	zlog.Logger = zerolog.New(&buf)
	defer func() { zlog.Logger = orig }()

	router := gin.New()
	router.Use(RequestID(), Logger())
	router.GET("/api/v1/books/search", func(c *gin.Context) {
		c.String(http.StatusOK, "hits")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/search?q=dune", nil)
	req.Header.Set("X-Request-ID", "req-42")
	router.ServeHTTP(w, req)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/api/v1/books/search?q=dune", line["path"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Equal(t, "req-42", line["request_id"])
	assert.Contains(t, line, "latency")
}

func TestRequestID_ReusesCallerHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-7")
	router.ServeHTTP(w, req)

	assert.Equal(t, "upstream-7", w.Body.String())
	assert.Equal(t, "upstream-7", w.Header().Get("X-Request-ID"))
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}
