package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// OKMessage sends a 200 JSON response with data and a message key.
func OKMessage(c *gin.Context, code string, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data, Message: code})
}

// Created sends a 201 JSON response with data and a message key.
func Created(c *gin.Context, code string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data, Message: code})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 for malformed bodies that never reached a service.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err, Code: errs.ErrInvalidRequest.Key})
}

// Error writes err using the error taxonomy. Untyped errors become 500
// with fallbackKey as the code and the raw error as detail.
func Error(c *gin.Context, err error, fallbackKey string) {
	var e *errs.Error
	if errors.As(err, &e) {
		body := Body{Success: false, Error: e.Message, Code: e.Key, Detail: e.Detail}
		if e.Kind == errs.KindInternal && e.Err != nil {
			body.Detail = e.Err.Error()
		}
		c.JSON(errs.Status(e.Kind), body)
		return
	}
	c.JSON(http.StatusInternalServerError, Body{
		Success: false,
		Error:   "internal server error",
		Code:    fallbackKey,
		Detail:  err.Error(),
	})
}

// Abort writes err like Error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err, "server.error")
	c.Abort()
}
