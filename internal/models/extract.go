package models

// ExtractMethod tells whether the microservice used the native text or OCR.
type ExtractMethod string

const (
	MethodNative ExtractMethod = "native"
	MethodOCR    ExtractMethod = "ocr"
)

// ExtractDebug describes how the microservice obtained its text.
type ExtractDebug struct {
	Method      ExtractMethod `json:"method"`
	OCRUsed     bool          `json:"ocr_used"`
	NativeChars int           `json:"native_chars"`
	PagesTotal  int           `json:"pages_total"`
	PagesOCR    int           `json:"pages_ocr"`
	Engine      string        `json:"engine,omitempty"`
}

// ExtractResponse is the body of the microservice's POST /extract.
type ExtractResponse struct {
	Tipo       *DocumentType `json:"tipo"`
	Caratula   *string       `json:"caratula"`
	Juzgado    *string       `json:"juzgado"`
	RawPreview string        `json:"raw_preview,omitempty"`
	Error      string        `json:"error,omitempty"`
	Debug      *ExtractDebug `json:"debug,omitempty"`
}

// ProxyResponse is what the API returns for extract-pdf: null fields plus an
// explanation whenever the microservice could not deliver.
type ProxyResponse struct {
	Caratula   *string       `json:"caratula"`
	Juzgado    *string       `json:"juzgado"`
	RawPreview string        `json:"raw_preview,omitempty"`
	Error      string        `json:"error,omitempty"`
	Debug      *ExtractDebug `json:"debug,omitempty"`
}
