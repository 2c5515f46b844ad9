package web

import (
	"fmt"
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PanicRecovery answers with the generic message, the panic value and stack
// only go to the log.
func PanicRecovery(c *gin.Context) {
	gin.CustomRecoveryWithWriter(&stackWriter{
		logger: Logger(c),
	}, func(c *gin.Context, recovered any) {
		HandleError(c, http.StatusInternalServerError, schema.GenericErrorMessage, fmt.Errorf("panic: %v", recovered))
	})(c)
}

type stackWriter struct {
	logger *zerolog.Logger
}

func (w *stackWriter) Write(stack []byte) (int, error) {
	w.logger.Error().Str("label", "panic").Msg(string(stack))

	return len(stack), nil
}
