package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEApplicationMsgpack is the content type of msgpack responses.
const MIMEApplicationMsgpack = "application/msgpack"

// bindAndValidate decodes the request into req and runs its validation tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// pathID returns the trimmed path parameter name, or a 400 when it is empty.
func pathID(c echo.Context, name string) (string, error) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" {
		return "", NewBadRequestError(name+" is required", nil)
	}
	return id, nil
}

// msgpackBlob encodes v and writes it with the msgpack content type.
func msgpackBlob(c echo.Context, v interface{}) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, MIMEApplicationMsgpack, data)
}
