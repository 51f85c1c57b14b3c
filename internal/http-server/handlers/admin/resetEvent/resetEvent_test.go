package resetEvent

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventcheckin/internal/checkin"
	"eventcheckin/internal/http-server/handlers/admin/resetEvent/mocks"
	"eventcheckin/internal/lib/logger/handlers/slogdiscard"
)

func TestResetEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.EventResetter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			eventID: "ev-1",
			mockSetup: func(m *mocks.EventResetter) {
				m.On("Reset", mock.Anything, "ev-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:    "Event not found",
			eventID: "missing",
			mockSetup: func(m *mocks.EventResetter) {
				m.On("Reset", mock.Anything, "missing").Return(checkin.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:    "Storage failure",
			eventID: "ev-1",
			mockSetup: func(m *mocks.EventResetter) {
				m.On("Reset", mock.Anything, "ev-1").Return(checkin.ErrStorageUnavailable)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to reset event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockResetter := mocks.NewEventResetter(t)
			tc.mockSetup(mockResetter)

			handler := New(logger, mockResetter)

			req, err := http.NewRequest("POST", "/events/"+tc.eventID+"/reset", nil)
			require.NoError(t, err)

			router := chi.NewRouter()
			router.Post("/events/{id}/reset", handler)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
		})
	}
}
