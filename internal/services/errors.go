package services

import (
	"errors"
	"net/http"

	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

const (
	msgTargetNotFound        = "Target not found"
	msgUnexpectedPersistence = "Unexpected persistence failure"
)

// apiErrorFromAggregate turns an aggregate failure into the error handlers render.
// Anything that is not a caller mistake is logged and reported as a 500.
func apiErrorFromAggregate(log *logger.Logger, op string, err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := apierr.From(err); ok {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	switch {
	case domainagg.IsProgressionRejection(err):
		return apierr.New(http.StatusBadRequest, string(code), errors.New(domainagg.MessageOf(err)))
	case code == domainagg.CodeValidation:
		return apierr.Validation(domainagg.MessageOf(err))
	case code == domainagg.CodeNotFound:
		return apierr.Missing(notFoundMsg)
	case code == domainagg.CodeConflict, code == domainagg.CodePreconditionFailed:
		return apierr.BadRequest(string(code), err)
	}
	if log != nil {
		log.Error("Unexpected persistence failure", "op", op, "code", string(code), "error", err)
	}
	return apierr.Internal("internal_error", errors.New(msgUnexpectedPersistence))
}

func internalError(log *logger.Logger, op string, err error) error {
	if log != nil {
		log.Error("Unexpected persistence failure", "op", op, "error", err)
	}
	return apierr.Internal("internal_error", errors.New(msgUnexpectedPersistence))
}
