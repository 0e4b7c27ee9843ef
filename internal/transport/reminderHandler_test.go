package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/service"
)

type stubReminderService struct {
	service.ReminderService

	input *service.CreateInput
	err   error
}

func (s *stubReminderService) Create(ctx context.Context, input *service.CreateInput) (*service.CreateResult, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &service.CreateResult{Reminder: &entity.Reminder{
		ID:     entity.NewReminderID(input.UserID, input.Due),
		UserID: input.UserID,
		Text:   input.Text,
		Due:    input.Due,
		Status: entity.StatusActive,
	}}, nil
}

func newCreateRouter(svc *stubReminderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/reminders", NewReminderHandler(svc).CreateReminder)
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateReminderEndpoint(t *testing.T) {
	svc := &stubReminderService{}
	router := newCreateRouter(svc)

	w := postJSON(router, `{"user_id":"u1","channel_id":"c1","text":"take pills","due":"2030-01-02T15:04:05Z"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.input)
	assert.Equal(t, "u1", svc.input.UserID)
	assert.Equal(t, "c1", svc.input.ChannelID)
	assert.Equal(t, "take pills", svc.input.Text)
	assert.Empty(t, svc.input.Raw)
	assert.True(t, svc.input.Due.Equal(time.Date(2030, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Contains(t, w.Body.String(), "u1_")
}

func TestCreateReminderValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		svcErr error
	}{
		{"missing user_id", `{"text":"x","due":"2030-01-02T15:04:05Z"}`, nil},
		{"missing due", `{"user_id":"u1","text":"x"}`, nil},
		{"past due", `{"user_id":"u1","text":"x","due":"2030-01-02T15:04:05Z"}`, entity.ErrTimeInPast},
		{"bad recurrence", `{"user_id":"u1","text":"x","due":"2030-01-02T15:04:05Z","recurring":"hourly"}`, entity.ErrInvalidRecurring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubReminderService{err: tt.svcErr}
			w := postJSON(newCreateRouter(svc), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
