package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// newRawGinContext создает контекст с произвольным телом запроса
func newRawGinContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests — не требуют реальных сервисов:
// handler возвращает 400 до вызова сервиса
// ============================================================================

func TestCapture_MalformedBody(t *testing.T) {
	handler := &ConsentHandler{}

	c, w := newRawGinContext("POST", "/api/legal/acknowledgments", "{not json")
	handler.Capture(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "Invalid request format")
}

func TestCaptureBatch_ValidationErrors(t *testing.T) {
	handler := &ConsentHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{
			name: "empty body",
			body: nil,
		},
		{
			name: "missing requests",
			body: map[string]interface{}{},
		},
		{
			name: "empty requests list",
			body: map[string]interface{}{"requests": []interface{}{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/legal/acknowledgments/batch", tt.body)
			handler.CaptureBatch(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["success"])
		})
	}
}

func TestStartWizard_MissingUserID(t *testing.T) {
	handler := &ConsentHandler{}

	c, w := newTestGinContext("POST", "/api/legal/wizard/sessions", map[string]interface{}{})
	handler.StartWizard(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Contains(t, resp["error"], "user_id")
}

func TestWizardEvent_MalformedBody(t *testing.T) {
	handler := &ConsentHandler{}

	c, w := newRawGinContext("POST", "/api/legal/wizard/sessions/abc/events", "not json at all")
	handler.WizardEvent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Contains(t, resp["error"], "Invalid event format")
}
