package converters

import (
	"time"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
)

// Response shapes are flat and every field is independently nullable.

type TypeResponse struct {
	Tipo *models.DocumentType `json:"tipo"`
}

type CaratulaResponse struct {
	Caratula *string `json:"caratula"`
}

type JuzgadoResponse struct {
	Juzgado *string `json:"juzgado"`
}

type ExpedienteResponse struct {
	Expediente *string `json:"expediente"`
	Numero     *string `json:"numero"`
	Anio       *int    `json:"anio"`
}

// FieldsResponse is the combined result of an asynchronous extraction.
type FieldsResponse struct {
	Tipo     *models.DocumentType `json:"tipo"`
	Caratula *string              `json:"caratula"`
	Juzgado  *string              `json:"juzgado"`
	ExpedienteResponse
}

type JobResponse struct {
	TaskID     string          `json:"taskId"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Source     string          `json:"source,omitempty"`
	Fields     *FieldsResponse `json:"fields,omitempty"`
	StartedAt  *time.Time      `json:"startedAt,omitempty"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty"`
}

func ToExpedienteResponse(ref *models.ExpedienteRef) ExpedienteResponse {
	if ref == nil {
		return ExpedienteResponse{}
	}
	full := ref.String()
	numero := ref.Numero
	anio := ref.Anio
	return ExpedienteResponse{Expediente: &full, Numero: &numero, Anio: &anio}
}

func ToFieldsResponse(f models.Fields) FieldsResponse {
	return FieldsResponse{
		Tipo:               f.Tipo,
		Caratula:           f.Caratula,
		Juzgado:            f.Juzgado,
		ExpedienteResponse: ToExpedienteResponse(f.Expediente),
	}
}

func ToJobResponse(r *models.JobResult) JobResponse {
	resp := JobResponse{
		TaskID:     r.TaskID,
		Status:     string(r.Status),
		Error:      r.Error,
		Source:     string(r.Source),
		StartedAt:  timePtr(r.StartedAt),
		FinishedAt: timePtr(r.FinishedAt),
	}
	if r.Fields != nil {
		fields := ToFieldsResponse(*r.Fields)
		resp.Fields = &fields
	}
	return resp
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
