package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type HTTPError struct {
	Status  int
	Message string
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var (
	DbHTTPErr = HTTPError{
		Message: "database error",
		Status:  http.StatusInternalServerError,
	}
	MalformedIdHTTPErr = HTTPError{
		Message: "id malformed",
		Status:  http.StatusBadRequest,
	}
)

/*
	HandleHTTPErrorRes handles creating the appropriate response for the HTTP error.
	break the route after calling this function
*/
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	c.JSON(err.Status, gin.H{
		"success": false,
		"message": err.Message,
	})
}

type HandlerOpts struct {
	// SuccessStatus overrides the default 200 response code
	SuccessStatus int
}

type Handler func(c *gin.Context) (interface{}, *HTTPError)

func HandlerWrapper(handler Handler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			c.Abort()
			return
		}
		status := http.StatusOK
		if opts != nil && opts.SuccessStatus != 0 {
			status = opts.SuccessStatus
		}
		c.JSON(status, gin.H{
			"success": true,
			"data":    data,
		})
	}
}

func BuildDbHTTPErr(err error) *HTTPError {
	logrus.WithError(err).Error("database error occurred")
	httpErr := DbHTTPErr
	return &httpErr
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("malformed request body: %v", err),
	}
}

// BuildAppHTTPErr maps feature errors onto HTTP statuses. Anything unknown is
// treated as a database failure.
func BuildAppHTTPErr(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return &HTTPError{Status: http.StatusBadRequest, Message: validationErr.Message}
	}

	status := 0
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ErrInsufficientPoints):
		status = http.StatusBadRequest
	default:
		return BuildDbHTTPErr(err)
	}
	return &HTTPError{Status: status, Message: err.Error()}
}

func ParseId(raw string) (string, *HTTPError) {
	id, err := uuid.Parse(raw)
	if err != nil {
		httpErr := MalformedIdHTTPErr
		return "", &httpErr
	}
	return id.String(), nil
}
