package docprep

import (
	"time"

	"github.com/gavelworks/docprep/metadata"
)

// DocumentType steers chunking and metadata extraction. Any string is
// accepted; unrecognized values are treated as TypeGeneral.
type DocumentType = string

const (
	TypeContract  DocumentType = "contract"
	TypeLegal     DocumentType = "legal"
	TypeGeneral   DocumentType = "general"
	TypeFinancial DocumentType = "financial"
	TypeTechnical DocumentType = "technical"
)

// Result is the outcome of processing one document. Failures are
// reported in-band: Success is false and Error holds the reason.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// InstallHint is set alongside dependency-related failures.
	InstallHint string `json:"install_hint,omitempty"`

	// SupportedFormats is set alongside unsupported-format failures.
	SupportedFormats []string `json:"supported_formats,omitempty"`

	Text         string   `json:"text,omitempty"`
	Chunks       []string `json:"chunks,omitempty"`
	Filename     string   `json:"filename,omitempty"`
	Format       string   `json:"format,omitempty"`
	DocumentType string   `json:"document_type,omitempty"`

	// DocumentHash is the first 16 hex characters of the SHA-256 of the
	// extracted text, for deduplication.
	DocumentHash string `json:"document_hash,omitempty"`

	FileMetadata     *FileMetadata      `json:"file_metadata,omitempty"`
	DocumentMetadata *metadata.Document `json:"document_metadata,omitempty"`
	Stats            *ProcessingStats   `json:"processing_stats,omitempty"`
}

// FileMetadata records filesystem facts about the input.
type FileMetadata struct {
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"file_size"`
	SizeMB    float64   `json:"file_size_mb"`
	Modified  time.Time `json:"modified_at"`
	Extension string    `json:"extension"`
	MIMEType  string    `json:"mime_type"`
}

// ProcessingStats summarizes one processing run.
type ProcessingStats struct {
	CharCount       int       `json:"char_count"`
	WordCount       int       `json:"word_count"`
	ChunkCount      int       `json:"chunk_count"`
	ChunkingApplied bool      `json:"chunking_applied"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// FormatInfo describes one supported extension for capability reports.
type FormatInfo struct {
	Available   bool   `json:"available"`
	OCRCapable  bool   `json:"ocr_capable"`
	OCREnabled  bool   `json:"ocr_enabled"`
	RequiresOCR bool   `json:"requires_ocr"`
	InstallHint string `json:"install_hint,omitempty"`
}

// failure builds an unsuccessful Result.
func failure(err string) *Result {
	return &Result{Success: false, Error: err}
}
