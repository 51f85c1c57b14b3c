package submit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"eventcheckin/internal/checkin"
	"eventcheckin/internal/lib/api/response"
	"eventcheckin/internal/lib/logger/sl"
	"eventcheckin/internal/models"
)

type Request struct {
	Method             string `json:"method" validate:"required,oneof=cpf qr"`
	AttendeeIdentifier string `json:"attendee_identifier,omitempty"`
	QRData             string `json:"qr_data,omitempty"`
	VerificationDigits string `json:"verification_digits,omitempty"`
}

type Response struct {
	response.Response
	Code        string                    `json:"code,omitempty"`
	Record      *models.CheckInRecord     `json:"record,omitempty"`
	CheckedInAt *time.Time                `json:"checked_in_at,omitempty"`
	Snapshot    *models.OccupancySnapshot `json:"snapshot,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=CheckInSubmitter
type CheckInSubmitter interface {
	CheckIn(ctx context.Context, a checkin.Attempt) (models.CheckInRecord, models.OccupancySnapshot, error)
}

func New(log *slog.Logger, submitter CheckInSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.checkin.submit.New"

		log = log.With(slog.String("op", op))

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("event_id", eventID))

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.String("method", req.Method))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		attempt := checkin.Attempt{
			EventID:            eventID,
			Method:             models.CheckInMethod(req.Method),
			AttendeeIdentifier: req.AttendeeIdentifier,
			QRData:             req.QRData,
			VerificationDigits: req.VerificationDigits,
		}

		record, snapshot, err := submitter.CheckIn(r.Context(), attempt)
		if err != nil {
			responseRejected(w, r, log, record, err)
			return
		}

		log.Info("check-in accepted",
			slog.String("record_id", record.ID),
			slog.Int("total_checkins", snapshot.TotalCheckins),
		)

		render.JSON(w, r, Response{
			Response: response.OK(),
			Record:   &record,
			Snapshot: &snapshot,
		})
	}
}

func responseRejected(w http.ResponseWriter, r *http.Request, log *slog.Logger, record models.CheckInRecord, err error) {
	code := checkin.Code(err)

	// Expected under concurrent duplicate submissions; tell the attendee
	// when they originally checked in instead of treating it as a fault.
	if errors.Is(err, checkin.ErrAlreadyCheckedIn) {
		log.Info("duplicate check-in", slog.Time("checked_in_at", record.Timestamp))

		checkedInAt := record.Timestamp
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, Response{
			Response:    response.Error("already checked in"),
			Code:        code,
			CheckedInAt: &checkedInAt,
		})
		return
	}

	log.Error("check-in rejected", sl.Err(err), slog.String("code", code))

	render.Status(r, statusFor(err))
	render.JSON(w, r, Response{
		Response: response.Error(err.Error()),
		Code:     code,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, checkin.ErrEventNotActive),
		errors.Is(err, checkin.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, checkin.ErrAttendeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkin.ErrVerificationFailed),
		errors.Is(err, checkin.ErrEventMismatch),
		errors.Is(err, checkin.ErrTokenExpired):
		return http.StatusBadRequest
	case errors.Is(err, checkin.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
