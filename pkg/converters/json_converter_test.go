package converters

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
)

func TestToExpedienteResponse(t *testing.T) {
	resp := ToExpedienteResponse(&models.ExpedienteRef{Numero: "012345", Anio: 2024})
	require.NotNil(t, resp.Expediente)
	assert.Equal(t, "012345/2024", *resp.Expediente)
	assert.Equal(t, "012345", *resp.Numero)
	assert.Equal(t, 2024, *resp.Anio)

	data, err := json.Marshal(ToExpedienteResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"expediente":null,"numero":null,"anio":null}`, string(data))
}

func TestToJobResponse(t *testing.T) {
	tipo := models.Oficio
	caratula := "PEREZ C/ GOMEZ"
	result := &models.JobResult{
		TaskID:    "t-1",
		Status:    models.JobCompleted,
		Source:    models.SourceDOCX,
		Fields:    &models.Fields{Tipo: &tipo, Caratula: &caratula},
		StartedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(ToJobResponse(result))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"taskId": "t-1",
		"status": "completed",
		"source": "docx",
		"startedAt": "2025-03-01T10:00:00Z",
		"fields": {
			"tipo": "OFICIO",
			"caratula": "PEREZ C/ GOMEZ",
			"juzgado": null,
			"expediente": null,
			"numero": null,
			"anio": null
		}
	}`, string(data))
}
