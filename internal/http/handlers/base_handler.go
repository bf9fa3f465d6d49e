// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/modules/ride"
)

const (
	CodeInvalidData        = "INVALID_DATA"
	CodeDriverNotFound     = "DRIVER_NOT_FOUND"
	CodeInvalidDistance    = "INVALID_DISTANCE"
	CodeInvalidDriver      = "INVALID_DRIVER"
	CodeRoutingFailure     = "ROUTING_FAILURE"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeNoDriversAvailable = "NO_DRIVERS_AVAILABLE"
	CodeNoRidesFound       = "NO_RIDES_FOUND"
)

type errorResponse struct {
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, code, msg string) {
	writeJSON(c, status, errorResponse{ErrorCode: code, ErrorDescription: msg})
}

const (
	msgRouteFailure = "Erro ao calcular a rota"
	msgSaveRide     = "Erro ao salvar a viagem"
	msgListRides    = "Erro ao consultar as viagens"
)

// writeRideError maps ride service errors to the error body. storageMsg describes
// the storage operation the caller was performing.
func writeRideError(c *gin.Context, err error, storageMsg string) {
	switch {
	case errors.Is(err, ride.ErrInvalidData):
		writeError(c, http.StatusBadRequest, CodeInvalidData, "Os dados fornecidos no corpo da requisição são inválidos")
	case errors.Is(err, ride.ErrDriverNotFound):
		writeError(c, http.StatusNotFound, CodeDriverNotFound, "Motorista não encontrado")
	case errors.Is(err, ride.ErrInvalidDistance):
		writeError(c, http.StatusNotAcceptable, CodeInvalidDistance, "Quilometragem inválida para o motorista")
	case errors.Is(err, ride.ErrInvalidDriver):
		writeError(c, http.StatusBadRequest, CodeInvalidDriver, "Motorista inválido")
	case errors.Is(err, ride.ErrRoutingFailure):
		writeError(c, http.StatusInternalServerError, CodeRoutingFailure, msgRouteFailure)
	default:
		writeError(c, http.StatusInternalServerError, CodeDatabaseError, storageMsg)
	}
}
