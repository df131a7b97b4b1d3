package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError traduz erros de domínio em resposta HTTP
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		log.Printf("unexpected error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		Internal(c, "internal_error", "Erro interno no servidor.")
		return
	}

	switch be.Kind {
	case KindValidation:
		BadRequest(c, be.Code, "Dados inválidos.")
	case KindNotFound:
		NotFound(c, be.Code, "Registro não encontrado.")
	case KindSlotUnavailable:
		c.JSON(http.StatusConflict, HTTPError{
			Code:    be.Code,
			Message: "Horário não está mais disponível, escolha outro.",
			Reason:  Reason(err),
		})
	case KindInvalidTransition:
		c.JSON(http.StatusConflict, HTTPError{
			Code:    be.Code,
			Message: "Mudança de status não permitida.",
			Reason:  Reason(err),
		})
	default:
		log.Printf("%s on %s %s: %v", be.Code, c.Request.Method, c.Request.URL.Path, be.Err)
		Internal(c, be.Code, "Erro interno no servidor.")
	}
}
