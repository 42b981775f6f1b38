package docprep

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gavelworks/docprep/chunk"
	"github.com/gavelworks/docprep/pdfdoc"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultMaxChunkSize = chunk.DefaultMaxChunkSize
	DefaultChunkOverlap = chunk.DefaultOverlap
	DefaultOCRThreshold = pdfdoc.DefaultOCRThreshold
	DefaultMaxFileSize  = 100 << 20 // 100 MB
	DefaultWorkers      = pdfdoc.DefaultWorkers
)

// Config controls document processing.
type Config struct {
	// MaxChunkSize is the per-segment size budget in bytes.
	MaxChunkSize int `yaml:"max_chunk_size" json:"max_chunk_size"`

	// ChunkOverlap is the size of the context excerpt carried between
	// adjacent segments.
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`

	// EnableOCR turns on OCR for images and image-heavy PDF pages. It
	// has no effect when the binary was built without OCR support.
	EnableOCR bool `yaml:"enable_ocr" json:"enable_ocr"`

	// OCRLanguage overrides the OCR engine's default language.
	OCRLanguage string `yaml:"ocr_language" json:"ocr_language"`

	// OCRThreshold is the per-page native character count below which a
	// PDF page falls back to OCR.
	OCRThreshold int `yaml:"ocr_threshold" json:"ocr_threshold"`

	// MaxFileSize rejects input files larger than this many bytes.
	MaxFileSize int64 `yaml:"max_file_size" json:"max_file_size"`

	// Workers bounds concurrent OCR page workers.
	Workers int `yaml:"workers" json:"workers"`

	// Logger receives processing diagnostics; slog.Default when nil.
	Logger *slog.Logger `yaml:"-" json:"-"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		MaxChunkSize: DefaultMaxChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		OCRThreshold: DefaultOCRThreshold,
		MaxFileSize:  DefaultMaxFileSize,
		Workers:      DefaultWorkers,
	}
}

// withDefaults fills unset fields so a zero Config is usable.
func (c Config) withDefaults() Config {
	if c.MaxChunkSize <= 0 {
		c.MaxChunkSize = DefaultMaxChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.OCRThreshold <= 0 {
		c.OCRThreshold = DefaultOCRThreshold
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// LoadConfig reads a YAML configuration file over the defaults. Unknown
// keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
