package v1

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/applicationmaker/tenant-service/internal/domain"
)

// errorStatuses maps domain error kinds to HTTP statuses. Anything not
// listed is an infrastructure failure and becomes a 500.
var errorStatuses = []struct {
	kind   error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
}

// toHTTPError converts a service error into a huma problem response.
func toHTTPError(op string, err error) error {
	for _, m := range errorStatuses {
		if errors.Is(err, m.kind) {
			log.Debug().Err(err).Str("operation", op).Int("status", m.status).Msg("api: request rejected")
			return huma.NewError(m.status, errorDetail(err))
		}
	}

	log.Error().Err(err).Str("operation", op).Msg("api: internal error")
	return huma.Error500InternalServerError("internal server error")
}

// errorDetail returns the message of the typed domain error in err's chain,
// without the wrapping operation prefixes.
func errorDetail(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return err.Error()
}
