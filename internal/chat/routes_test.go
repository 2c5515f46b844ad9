package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/booking/flowstore"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(assistant Assistant) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewHandler(NewService(assistant, NewMemoryStore(time.Hour)), flowstore.NewMemoryStore(time.Hour), time.UTC, nil)
	handler.Register(router)

	return router
}

func perform(router *gin.Engine, method string, path string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	return recorder
}

func TestRoutes(t *testing.T) {
	router := setupRouter(replying("Here is your quote", journeyIntent()))

	recorder := perform(router, http.MethodPost, "/api/chat/sessions", "")
	require.Equal(t, http.StatusCreated, recorder.Code)

	var session Session
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &session))
	require.NotEmpty(t, session.ID)

	recorder = perform(router, http.MethodPost, "/api/chat/sessions/"+session.ID+"/messages", `{"text":"Heathrow to Bournemouth"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var turn Turn
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &turn))
	assert.Equal(t, ControlQuoteHandoff, turn.Control.Kind)

	recorder = perform(router, http.MethodPost, "/api/chat/sessions/"+session.ID+"/handoff", "")
	require.Equal(t, http.StatusCreated, recorder.Code)

	var stage view.StageView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stage))
	assert.NotEmpty(t, stage.FlowID)
	assert.True(t, stage.Journey.CanProceed)

	recorder = perform(router, http.MethodGet, "/api/chat/sessions/"+session.ID, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRoutesErrors(t *testing.T) {
	router := setupRouter(replying("ok", nil))

	t.Run("unknown session", func(t *testing.T) {
		recorder := perform(router, http.MethodPost, "/api/chat/sessions/missing/messages", `{"text":"hi"}`)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "This conversation has expired")
	})

	t.Run("missing text", func(t *testing.T) {
		recorder := perform(router, http.MethodPost, "/api/chat/sessions/any/messages", `{}`)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"field":"text"`)
	})

	t.Run("nothing to hand off", func(t *testing.T) {
		recorder := perform(router, http.MethodPost, "/api/chat/sessions", "")
		var session Session
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &session))

		recorder = perform(router, http.MethodPost, "/api/chat/sessions/"+session.ID+"/handoff", "")
		assert.Equal(t, http.StatusPreconditionFailed, recorder.Code)
		assert.Contains(t, recorder.Body.String(), schema.UserMessage(ErrNothingToHandOff))
	})
}
