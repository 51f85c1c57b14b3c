package getOccupancy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventcheckin/internal/checkin"
	"eventcheckin/internal/http-server/handlers/event/getOccupancy/mocks"
	"eventcheckin/internal/lib/logger/handlers/slogdiscard"
	"eventcheckin/internal/models"
)

func TestGetOccupancyHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.OccupancyProvider)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:    "Success",
			eventID: "ev-1",
			mockSetup: func(m *mocks.OccupancyProvider) {
				m.On("Occupancy", mock.Anything, "ev-1").Return(models.OccupancySnapshot{
					EventID:          "ev-1",
					TotalCheckins:    2,
					CheckinsLastHour: 2,
					OccupancyRate:    0.5,
					WaitingCount:     3,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","snapshot":{"event_id":"ev-1","total_checkins":2,"checkins_last_hour":2,"occupancy_rate":0.5,"waiting_count":3}}`,
		},
		{
			name:    "Capacity undefined",
			eventID: "ev-2",
			mockSetup: func(m *mocks.OccupancyProvider) {
				m.On("Occupancy", mock.Anything, "ev-2").Return(models.OccupancySnapshot{
					EventID:           "ev-2",
					TotalCheckins:     7,
					CheckinsLastHour:  1,
					CapacityUndefined: true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"capacity_undefined":true`)
				assert.Contains(t, body, `"occupancy_rate":0`)
			},
		},
		{
			name:    "Event not found",
			eventID: "missing",
			mockSetup: func(m *mocks.OccupancyProvider) {
				m.On("Occupancy", mock.Anything, "missing").
					Return(models.OccupancySnapshot{}, checkin.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:    "Storage unavailable",
			eventID: "ev-1",
			mockSetup: func(m *mocks.OccupancyProvider) {
				m.On("Occupancy", mock.Anything, "ev-1").
					Return(models.OccupancySnapshot{}, checkin.ErrStorageUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"Error","error":"storage unavailable"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockProvider := mocks.NewOccupancyProvider(t)
			tc.mockSetup(mockProvider)

			handler := New(logger, mockProvider)

			req, err := http.NewRequest("GET", "/events/"+tc.eventID+"/occupancy", nil)
			require.NoError(t, err)

			router := chi.NewRouter()
			router.Get("/events/{id}/occupancy", handler)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
