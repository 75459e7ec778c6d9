package handling

import (
	"catalogo_server/lib"
	"catalogo_server/services"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.Send())
	return nil
}

// WriteError maps a service error onto the response envelope. Unknown errors
// go through HandleError and are reported as 500.
func WriteError(w http.ResponseWriter, logger *gecho.Logger, err error, msg string) {
	var ve *lib.ValidationError
	switch {
	case errors.As(err, &ve):
		gecho.BadRequest(w, gecho.WithMessage("error.validation"), gecho.WithData(ve), gecho.Send())

	case errors.Is(err, lib.ErrConfirmationRequired):
		gecho.BadRequest(w,
			gecho.WithMessage("error.confirmationRequired"),
			gecho.WithData(map[string]string{"hint": "repeat the request with ?confirm=true"}),
			gecho.Send(),
		)

	case errors.Is(err, lib.ErrInvalidID):
		gecho.BadRequest(w, gecho.WithMessage("error.invalidId"), gecho.Send())

	case errors.Is(err, services.ErrUnknownField),
		errors.Is(err, services.ErrUnknownList),
		errors.Is(err, services.ErrIndexOutOfRange),
		errors.Is(err, services.ErrInvalidValue):
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())

	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage("error.notFound"), gecho.Send())

	case errors.Is(err, lib.ErrConflict),
		errors.Is(err, lib.ErrStale),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrSubmitInFlight):
		gecho.Conflict(w, gecho.WithMessage(err.Error()), gecho.Send())

	case errors.Is(err, services.ErrReloadFailed):
		// The write went through; the client should refetch
		logger.Warn("Write persisted but reload failed", gecho.Field("error", err), gecho.Field("msg", msg))
		gecho.Success(w, gecho.WithMessage("success.persistedReloadFailed"), gecho.Send())

	default:
		_ = HandleError(err, msg, logger, w)
	}
}

// WriteBodyError reports a request body that could not be decoded or validated
func WriteBodyError(w http.ResponseWriter, logger *gecho.Logger, err error) {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		WriteError(w, logger, err, "validate body")
		return
	}
	logger.Debug("Failed to decode request body", gecho.Field("error", err))
	gecho.BadRequest(w, gecho.WithMessage("error.invalidRequestBody"), gecho.WithData(err.Error()), gecho.Send())
}
