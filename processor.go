// Package docprep turns documents in common office formats into clean
// text, content-aware chunks, and structured metadata.
//
// A Processor resolves the input format, extracts text with the
// format's handler (falling back to OCR where the format supports it),
// derives legal-document metadata, and segments the text for retrieval
// indexing. Processing never panics or returns a Go error for
// document-level problems: every outcome is a Result, and failures are
// reported through Result.Success and Result.Error.
package docprep

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gavelworks/docprep/chunk"
	"github.com/gavelworks/docprep/docx"
	"github.com/gavelworks/docprep/format"
	"github.com/gavelworks/docprep/htmldoc"
	"github.com/gavelworks/docprep/imagedoc"
	"github.com/gavelworks/docprep/metadata"
	"github.com/gavelworks/docprep/ocr"
	"github.com/gavelworks/docprep/pdfdoc"
	"github.com/gavelworks/docprep/textdoc"
	"github.com/gavelworks/docprep/xlsx"
)

// Processor orchestrates extraction, metadata analysis and chunking.
// It is safe for concurrent use.
type Processor struct {
	cfg     Config
	formats *format.Table
	chunker *chunk.Chunker
}

// NewProcessor builds a Processor. A zero Config is usable; see
// DefaultConfig for the values applied.
func NewProcessor(cfg Config) *Processor {
	cfg = cfg.withDefaults()
	p := &Processor{
		cfg:     cfg,
		formats: format.NewTable(ocr.Available),
		chunker: chunk.New(chunk.Config{
			MaxChunkSize: cfg.MaxChunkSize,
			Overlap:      cfg.ChunkOverlap,
		}),
	}
	cfg.Logger.Info("document processor initialized",
		"ocr", cfg.EnableOCR && ocr.Available,
		"formats", p.formats.Supported())
	return p
}

// Process runs the full pipeline over one file. An empty docType is
// treated as TypeGeneral. The returned Result is never nil; inspect
// Result.Success rather than an error.
func (p *Processor) Process(ctx context.Context, path string, docType DocumentType) (res *Result) {
	if docType == "" {
		docType = TypeGeneral
	}
	log := p.cfg.Logger.With("file", filepath.Base(path))

	// Document-level faults must not escape, including panics out of
	// third-party parsers fed pathological input.
	defer func() {
		if r := recover(); r != nil {
			log.Error("processing panicked", "panic", r)
			res = failure(fmt.Sprintf("internal error: %v", r))
			res.Filename = filepath.Base(path)
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return failure("file not found")
		}
		return failure(err.Error())
	}

	fileMeta := fileMetadata(path, info)

	if info.Size() > p.cfg.MaxFileSize {
		res := failure(fmt.Sprintf("file exceeds size limit (%d > %d bytes)",
			info.Size(), p.cfg.MaxFileSize))
		res.FileMetadata = fileMeta
		return res
	}

	desc, err := p.resolve(path, log)
	if err != nil {
		var unsupported *format.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			res := failure(fmt.Sprintf("unsupported format: %s", unsupported.Extension))
			res.SupportedFormats = unsupported.Supported
			return res
		}
		var missing *format.DependencyMissingError
		if errors.As(err, &missing) {
			res := failure(fmt.Sprintf("format %s requires additional dependencies", missing.Extension))
			res.InstallHint = missing.InstallHint
			return res
		}
		return failure(err.Error())
	}

	text, err := p.extract(ctx, path, desc)
	if err != nil {
		log.Error("extraction failed", "format", desc.Format, "error", err)
		text = ""
	}
	text = strings.TrimSpace(text)
	if text == "" {
		res := failure("no text extracted from document")
		res.FileMetadata = fileMeta
		return res
	}

	docMeta := metadata.Analyze(text, docType)
	chunks := p.chunker.Chunk(text, docType)
	log.Info("document processed", "chunks", len(chunks), "type", docType)

	return &Result{
		Success:          true,
		Text:             text,
		Chunks:           chunks,
		Filename:         filepath.Base(path),
		Format:           desc.Extension,
		DocumentType:     docType,
		DocumentHash:     Hash(text),
		FileMetadata:     fileMeta,
		DocumentMetadata: docMeta,
		Stats: &ProcessingStats{
			CharCount:       utf8.RuneCountInString(text),
			WordCount:       len(strings.Fields(text)),
			ChunkCount:      len(chunks),
			ChunkingApplied: len(chunks) > 1,
			ProcessedAt:     time.Now(),
		},
	}
}

// resolve maps the file to a capability descriptor, by extension first
// and by content sniffing when the extension is unknown. Distinguishing
// ZIP flavors needs the archive's central directory, so the sniff reads
// the whole (already size-checked) file.
func (p *Processor) resolve(path string, log *slog.Logger) (format.Descriptor, error) {
	desc, err := p.formats.Resolve(path)
	if err == nil {
		return desc, nil
	}

	var unsupported *format.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		return format.Descriptor{}, err
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return format.Descriptor{}, err
	}

	sniffed, sniffErr := p.formats.ResolveContent(data)
	if sniffErr == nil {
		log.Debug("format resolved by content sniff", "format", sniffed.Format)
		return sniffed, nil
	}
	var missing *format.DependencyMissingError
	if errors.As(sniffErr, &missing) {
		return format.Descriptor{}, sniffErr
	}
	// Content not recognizable either: the extension-based error names
	// the actual extension, so it is the one to surface.
	return format.Descriptor{}, err
}

// extract dispatches to the handler for the resolved format.
func (p *Processor) extract(ctx context.Context, path string, desc format.Descriptor) (string, error) {
	switch desc.Format {
	case format.PDF:
		return pdfdoc.Extract(ctx, path, pdfdoc.Config{
			EnableOCR:    p.cfg.EnableOCR,
			OCRLanguage:  p.cfg.OCRLanguage,
			OCRThreshold: p.cfg.OCRThreshold,
			Workers:      p.cfg.Workers,
			Logger:       p.cfg.Logger,
		})
	case format.Text:
		return textdoc.Extract(path)
	case format.Word:
		return docx.Extract(path)
	case format.Spreadsheet:
		return xlsx.Extract(path)
	case format.Image:
		return imagedoc.Extract(path, imagedoc.Config{OCRLanguage: p.cfg.OCRLanguage})
	case format.HTML:
		return htmldoc.Extract(path)
	default:
		return "", fmt.Errorf("no handler for format %s", desc.Format)
	}
}

// IsSupported reports whether the filename's format is known and its
// handler dependency is present.
func (p *Processor) IsSupported(filename string) bool {
	_, err := p.formats.Resolve(filename)
	return err == nil
}

// RequiresOCR reports whether the filename's format depends on OCR for
// any text at all.
func (p *Processor) RequiresOCR(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, d := range p.formats.Descriptors() {
		if d.Extension == ext {
			return d.RequiresOCR
		}
	}
	return false
}

// SupportedFormats reports capability information for every known
// extension, including unavailable ones.
func (p *Processor) SupportedFormats() map[string]FormatInfo {
	out := make(map[string]FormatInfo)
	for _, d := range p.formats.Descriptors() {
		info := FormatInfo{
			Available:   d.Available,
			OCRCapable:  d.OCRCapable,
			OCREnabled:  d.OCRCapable && p.cfg.EnableOCR && ocr.Available,
			RequiresOCR: d.RequiresOCR,
		}
		if !d.Available {
			info.InstallHint = d.InstallHint
		}
		out[d.Extension] = info
	}
	return out
}

// Hash returns the first 16 hex characters of the SHA-256 of text, used
// for deduplication.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}

// fileMetadata records filesystem facts; it never fails.
func fileMetadata(path string, info fs.FileInfo) *FileMetadata {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "unknown"
	}
	return &FileMetadata{
		Filename:  filepath.Base(path),
		SizeBytes: info.Size(),
		SizeMB:    float64(info.Size()) / (1 << 20),
		Modified:  info.ModTime(),
		Extension: ext,
		MIMEType:  mimeType,
	}
}
