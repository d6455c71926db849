package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/example/task-manager/apperr"
	"github.com/example/task-manager/i18n"
)

// mapError turns any error into an HTTP status and body. Internal details
// are only exposed when debug is set.
func mapError(err error, catalog *i18n.Catalog, tag language.Tag, debug bool) (int, ErrorResponse) {
	text := func(msg, key string) string {
		if msg != "" {
			return msg
		}
		return catalog.Text(tag, key)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := fe.Message
		switch fe.Code {
		case fiber.StatusNotFound:
			msg = catalog.Text(tag, i18n.ErrNotFound)
		case fiber.StatusMethodNotAllowed:
			msg = catalog.Text(tag, i18n.ErrMethodNotAllowed)
		}
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, ErrorResponse{Error: msg}
		}
	}

	e := apperr.From(err)
	switch e.Kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest, ErrorResponse{
			Error:  text(e.Message, i18n.ErrValidation),
			Errors: e.Fields,
		}
	case apperr.KindNotFound:
		return fiber.StatusNotFound, ErrorResponse{Error: text(e.Message, i18n.ErrNotFound)}
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized, ErrorResponse{Error: text(e.Message, i18n.ErrUnauthorized)}
	case apperr.KindConflict:
		return fiber.StatusConflict, ErrorResponse{Error: text(e.Message, i18n.ErrConflict)}
	}

	resp := ErrorResponse{Error: catalog.Text(tag, i18n.ErrInternal)}
	if debug {
		resp.Error = e.Message
		resp.Trace = e.Trace
	}
	return fiber.StatusInternalServerError, resp
}

// errorHandler is the single exit for failed requests. Only internal
// errors are logged.
func (h *Handlers) errorHandler(c *fiber.Ctx, err error) error {
	status, body := mapError(err, h.catalog, h.catalog.FromContext(c.UserContext()), h.debug)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("Request failed",
			"method", c.Method(),
			"uri", c.OriginalURL(),
			"status", status,
			"error", err)
	}
	return c.Status(status).JSON(body)
}
