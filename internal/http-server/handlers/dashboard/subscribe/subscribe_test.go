package subscribe

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventcheckin/internal/broadcast"
	"eventcheckin/internal/checkin"
	"eventcheckin/internal/http-server/handlers/dashboard/subscribe/mocks"
	"eventcheckin/internal/lib/logger/handlers/slogdiscard"
	"eventcheckin/internal/models"
)

func TestSubscribeStream(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	hub := broadcast.NewHub()

	mockProvider := mocks.NewOccupancyProvider(t)
	mockProvider.On("Occupancy", mock.Anything, "ev-1").
		Return(models.OccupancySnapshot{EventID: "ev-1", TotalCheckins: 1}, nil)

	router := chi.NewRouter()
	router.Get("/events/{id}/subscribe", New(logger, hub, mockProvider))

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events/ev-1/subscribe")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)

	initial := readFrame(t, scanner)
	assert.Equal(t, broadcast.TypeSnapshotRefresh, initial.Type)
	assert.Equal(t, 1, initial.Snapshot.TotalCheckins)

	// The handler subscribes after the initial frame; give it a moment.
	require.Eventually(t, func() bool {
		return hub.Subscribers("ev-1") == 1
	}, time.Second, 10*time.Millisecond)

	record := models.CheckInRecord{ID: "rec-2", EventID: "ev-1"}
	hub.Publish("ev-1", broadcast.Update{
		Type:     broadcast.TypeCheckinUpdate,
		Record:   &record,
		Snapshot: models.OccupancySnapshot{EventID: "ev-1", TotalCheckins: 2},
	})

	update := readFrame(t, scanner)
	assert.Equal(t, broadcast.TypeCheckinUpdate, update.Type)
	require.NotNil(t, update.Record)
	assert.Equal(t, "rec-2", update.Record.ID)
	assert.Equal(t, 2, update.Snapshot.TotalCheckins)
}

func TestSubscribeEventNotFound(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	hub := broadcast.NewHub()

	mockProvider := mocks.NewOccupancyProvider(t)
	mockProvider.On("Occupancy", mock.Anything, "missing").
		Return(models.OccupancySnapshot{}, checkin.ErrEventNotFound)

	router := chi.NewRouter()
	router.Get("/events/{id}/subscribe", New(logger, hub, mockProvider))

	req := httptest.NewRequest("GET", "/events/missing/subscribe", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "event not found")
}

func readFrame(t *testing.T, scanner *bufio.Scanner) broadcast.Update {
	t.Helper()

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var update broadcast.Update
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &update))
		return update
	}

	t.Fatal("stream ended before a data frame arrived")
	return broadcast.Update{}
}
