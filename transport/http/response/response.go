// Package response writes the API envelope: a category code, a
// message and an optional data payload.
package response

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/ciphertrace/core/validator"
	"github.com/kochabx/ciphertrace/errors"
)

const (
	successCode    = http.StatusOK
	successMessage = "success"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (r *Response) reset() {
	r.Code = 0
	r.Message = ""
	r.Data = nil
}

var pool = sync.Pool{
	New: func() any { return &Response{} },
}

// JSON writes a success envelope around data.
func JSON(c *gin.Context, data any) {
	r := pool.Get().(*Response)
	defer func() { r.reset(); pool.Put(r) }()

	r.Code = successCode
	r.Message = successMessage
	r.Data = data
	c.JSON(http.StatusOK, r)
}

// Error writes an error envelope. Engine errors keep their category
// code and map to an HTTP status through their category; validation
// errors answer 400 with the failed fields in the data payload.
func Error(c *gin.Context, err error) {
	r := pool.Get().(*Response)
	defer func() { r.reset(); pool.Put(r) }()

	if ve, ok := validator.AsErrors(err); ok {
		r.Code = errors.CodeInvalidInput
		r.Message = ve.Error()
		r.Data = ve.Fields
		c.JSON(http.StatusBadRequest, r)
		return
	}

	e := errors.FromError(err)
	r.Code = e.Code
	r.Message = e.Message
	c.JSON(errors.MapHTTPStatus(err), r)
}
