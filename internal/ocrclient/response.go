package ocrclient

import (
	"errors"
	"fmt"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
)

const manualHint = "Complete los datos manualmente."

// ToResponse turns any outcome of ExtractPDF into the null-field contract.
func ToResponse(result *models.ExtractResponse, err error) models.ProxyResponse {
	if err != nil {
		return models.ProxyResponse{Error: Message(err)}
	}
	if result == nil {
		return models.ProxyResponse{Error: Message(ErrDecode)}
	}
	return models.ProxyResponse{
		Caratula:   result.Caratula,
		Juzgado:    result.Juzgado,
		RawPreview: result.RawPreview,
		Error:      result.Error,
		Debug:      result.Debug,
	}
}

// Message is the user-facing Spanish explanation for a proxy failure.
func Message(err error) string {
	var statusErr *UpstreamStatusError
	var netErr *NetworkError

	switch {
	case errors.Is(err, ErrTimeout):
		return "El servicio de extracción no respondió a tiempo. " + manualHint
	case errors.As(err, &statusErr):
		return fmt.Sprintf("El servicio de extracción respondió con error (HTTP %d). %s", statusErr.Code, manualHint)
	case errors.As(err, &netErr):
		return "No se pudo contactar el servicio de extracción. " + manualHint
	case errors.Is(err, ErrDecode):
		return "El servicio de extracción devolvió una respuesta inválida. " + manualHint
	default:
		return "No se pudo extraer la información del PDF. " + manualHint
	}
}
