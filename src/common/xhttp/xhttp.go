// Package xhttp holds the gin response helpers every handler goes through,
// so the wire envelope stays uniform.
package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/pixura/pixura-contracts/src/common/errcode"
)

type response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// OkJson answers a successful request.
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{Code: errcode.CodeOK, Msg: "ok", Data: data})
}

// Error answers a failed request. Known errcode errors keep their code;
// anything else is wrapped in the generic business-error envelope.
func Error(c *gin.Context, err error) {
	var e *errcode.Err
	if !errors.As(err, &e) {
		e = errcode.NewCustomErr(err.Error())
	}
	httpCode := e.HTTPCode
	if httpCode == 0 {
		httpCode = http.StatusOK
	}
	c.JSON(httpCode, response{Code: e.Code, Msg: e.Msg})
}
