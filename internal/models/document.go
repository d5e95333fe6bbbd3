package models

import (
	"strconv"
	"time"
)

// DocumentType is the classification of a filing. The zero value means unknown.
type DocumentType string

const (
	Cedula DocumentType = "CEDULA"
	Oficio DocumentType = "OFICIO"
)

// Source names the acquisition path that produced the text a field came from.
type Source string

const (
	SourceDOCX     Source = "docx"
	SourcePDFRuns  Source = "pdf-runs"
	SourcePDFText  Source = "pdf-text"
	SourceOCR      Source = "ocr"
	SourceFilename Source = "filename"
)

// SourceDocument is an uploaded or downloaded file, consumed once per request.
type SourceDocument struct {
	Data     []byte
	Filename string
	MimeType string
}

// ExpedienteRef is a docket reference: number as captured plus a validated year.
type ExpedienteRef struct {
	Numero string `json:"numero"`
	Anio   int    `json:"anio"`
}

func (e ExpedienteRef) String() string {
	return e.Numero + "/" + strconv.Itoa(e.Anio)
}

// Fields aggregates every extractor result for one document. Nil means absent.
type Fields struct {
	Tipo       *DocumentType  `json:"tipo"`
	Caratula   *string        `json:"caratula"`
	Juzgado    *string        `json:"juzgado"`
	Expediente *ExpedienteRef `json:"expediente"`
}

// ExtractionJob describes an asynchronous extraction of a stored document.
type ExtractionJob struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
}

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// JobResult is what the status store keeps for a job.
type JobResult struct {
	TaskID     string    `json:"taskId"`
	Status     JobStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	Source     Source    `json:"source,omitempty"`
	Fields     *Fields   `json:"fields,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}
