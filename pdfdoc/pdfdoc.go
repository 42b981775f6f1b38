// Package pdfdoc extracts text from PDF files.
//
// Native text is parsed from page content streams. Pages whose native
// text is shorter than the OCR threshold fall back to recognizing the
// page's embedded images, and the OCR result replaces the native text
// only when it is strictly longer. Each page is annotated with a
// [Page N] marker.
package pdfdoc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/gavelworks/docprep/ocr"
)

const (
	// DefaultOCRThreshold is the native character count below which a
	// page is considered image-heavy and worth OCR.
	DefaultOCRThreshold = 50

	// DefaultWorkers bounds concurrent OCR page workers.
	DefaultWorkers = 4
)

// Config controls PDF extraction.
type Config struct {
	// EnableOCR turns on the per-page OCR fallback. It has no effect
	// when the binary was built without OCR support.
	EnableOCR bool

	// OCRLanguage is passed to the OCR engine when set.
	OCRLanguage string

	// OCRThreshold overrides DefaultOCRThreshold when positive.
	OCRThreshold int

	// Workers overrides DefaultWorkers when positive.
	Workers int

	Logger *slog.Logger
}

func (c Config) threshold() int {
	if c.OCRThreshold > 0 {
		return c.OCRThreshold
	}
	return DefaultOCRThreshold
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return DefaultWorkers
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// page carries one page's extraction state through the OCR stage.
type page struct {
	number int
	native string
	images [][]byte
	text   string
}

// Extract returns the linearized text of a PDF, page markers included.
func Extract(ctx context.Context, path string, cfg Config) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("reading pdf %s: %w", path, err)
	}

	pages := make([]*page, 0, pdfCtx.PageCount)
	for nr := 1; nr <= pdfCtx.PageCount; nr++ {
		p := &page{number: nr, native: extractPageText(pdfCtx, nr)}
		p.text = p.native

		// Collect image bytes up front: the pdfcpu context is not
		// safe to share across the OCR goroutines.
		if cfg.EnableOCR && ocr.Available && len(strings.TrimSpace(p.native)) < cfg.threshold() {
			p.images = pageImages(pdfCtx, nr, cfg.logger())
		}
		pages = append(pages, p)
	}

	if err := runOCR(ctx, pages, cfg); err != nil {
		return "", err
	}

	return assemblePages(pages), nil
}

// assemblePages annotates every page with its [Page N] marker, empty
// pages included, so page numbering stays contiguous and a reader can
// tell "page present but blank" from "page missing".
func assemblePages(pages []*page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if t := strings.TrimSpace(p.text); t != "" {
			parts = append(parts, fmt.Sprintf("[Page %d]\n%s", p.number, t))
		} else {
			parts = append(parts, fmt.Sprintf("[Page %d]", p.number))
		}
	}
	return strings.Join(parts, "\n\n")
}

// pageImages extracts the page's image XObjects as raw encoded bytes.
// Extraction failures are logged and yield fewer images, not an error.
func pageImages(pdfCtx *model.Context, pageNr int, log *slog.Logger) [][]byte {
	imgs, err := pdfcpu.ExtractPageImages(pdfCtx, pageNr, false)
	if err != nil {
		log.Warn("page image extraction failed", "page", pageNr, "error", err)
		return nil
	}

	var out [][]byte
	for _, img := range imgs {
		data, err := io.ReadAll(img)
		if err != nil || len(data) == 0 {
			continue
		}
		out = append(out, data)
	}
	return out
}

// runOCR recognizes the collected page images in parallel and applies
// the result where it beats the native text. Pages keep their native
// text when OCR fails or comes back shorter.
func runOCR(ctx context.Context, pages []*page, cfg Config) error {
	var pending []*page
	for _, p := range pages {
		if len(p.images) > 0 {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	for _, p := range pending {
		p := p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			client, err := ocr.New()
			if err != nil {
				cfg.logger().Warn("ocr unavailable", "page", p.number, "error", err)
				return nil
			}
			defer client.Close()
			if cfg.OCRLanguage != "" {
				if err := client.SetLanguage(cfg.OCRLanguage); err != nil {
					cfg.logger().Warn("ocr language rejected", "language", cfg.OCRLanguage, "error", err)
				}
			}

			var sb strings.Builder
			for _, img := range p.images {
				text, err := client.Recognize(img)
				if err != nil {
					cfg.logger().Warn("ocr failed on page image", "page", p.number, "error", err)
					continue
				}
				if text = strings.TrimSpace(text); text != "" {
					if sb.Len() > 0 {
						sb.WriteByte('\n')
					}
					sb.WriteString(text)
				}
			}

			if recognized := sb.String(); len(recognized) > len(strings.TrimSpace(p.native)) {
				p.text = recognized
			}
			return nil
		})
	}
	return g.Wait()
}
