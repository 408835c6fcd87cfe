package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"
)

const eventsChannel = "broadcast"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// writeAppError is the single place an error becomes a status code.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	writeError(w, status, apperr.Message(err))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody reads a JSON body into dst, runs normalize, then validates dst.
func (s *Server) decodeBody(r *http.Request, dst any, normalize func()) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return ErrInvalidBody
	}
	if normalize != nil {
		normalize()
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperr.Wrap(apperr.InvalidArgument, "invalid request", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				msgs = append(msgs, fe.Field()+" is required")
			case "max":
				msgs = append(msgs, fe.Field()+" is too long")
			default:
				msgs = append(msgs, fe.Field()+" is invalid")
			}
		}
		return apperr.New(apperr.InvalidArgument, strings.Join(msgs, ", "))
	}
	return nil
}

// publishEvent notifies listeners on the broadcast channel. Failures are
// logged and otherwise ignored.
func (s *Server) publishEvent(ctx context.Context, eventType string, payload any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(map[string]any{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", eventType).Msg("marshal event")
		return
	}
	if err := s.rdb.Publish(ctx, eventsChannel, data).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", eventType).Msg("publish event")
	}
}
