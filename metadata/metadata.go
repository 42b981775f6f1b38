// Package metadata derives structural and semantic markers from
// extracted document text.
//
// For contract/legal documents a fixed set of entity pattern classes is
// scanned; generic statistics (paragraph and sentence counts, table and
// monetary markers) are computed for every document. Analysis never
// fails: text without matches yields empty results.
package metadata

import (
	"regexp"
	"strings"
)

// maxMatchesPerClass caps how many matches each entity class retains,
// in order of appearance.
const maxMatchesPerClass = 5

// Entity class names used as keys in Document.Entities.
const (
	ClassParties   = "contract_parties"
	ClassDates     = "contract_dates"
	ClassMonetary  = "monetary_amounts"
	ClassSections  = "legal_sections"
	ClassAddresses = "addresses"
)

var (
	partiesPattern  = regexp.MustCompile(`(?i)(?:PARTIES?|BETWEEN|LANDLORD|TENANT|BUYER|SELLER|CLIENT|CONTRACTOR):\s*([^\n]+)`)
	datesPattern    = regexp.MustCompile(`(?i)(?:DATE|DATED|EFFECTIVE|EXECUTION|COMMENCEMENT):\s*([^\n]+)`)
	monetaryPattern = regexp.MustCompile(`(?i)\$[\d,]+\.?\d*|\d+\s*(?:dollars?|USD)`)
	sectionsPattern = regexp.MustCompile(`(?i)(?:ARTICLE|SECTION|CLAUSE)\s+\w+[:.]`)
	addressPattern  = regexp.MustCompile(`(?i)\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Boulevard|Blvd)[^\n]*`)

	sentenceTerminators = regexp.MustCompile(`[.!?]+`)
)

// Document holds content-derived metadata for one extracted document.
type Document struct {
	DocumentType string `json:"document_type"`
	Language     string `json:"language"`

	// Entities maps entity class to its matches in order of appearance,
	// capped at 5 per class. Populated only for legal document types.
	Entities map[string][]string `json:"extracted_entities"`

	ParagraphCount int  `json:"paragraph_count"`
	SentenceCount  int  `json:"sentence_count"`
	ContainsTables bool `json:"contains_tables"`

	// ContainsMonetaryAmounts is computed for every document type.
	ContainsMonetaryAmounts bool `json:"contains_monetary_amounts"`
}

// isLegal reports whether entity pattern scanning applies.
func isLegal(docType string) bool {
	switch strings.ToLower(docType) {
	case "contract", "legal":
		return true
	}
	return false
}

// Analyze scans text for domain markers and statistics. It is a pure
// function of its inputs and never fails.
func Analyze(text, docType string) *Document {
	doc := &Document{
		DocumentType: docType,
		Language:     "en",
		Entities:     make(map[string][]string),
	}

	if isLegal(docType) {
		collectSubmatches(doc, ClassParties, partiesPattern, text)
		collectSubmatches(doc, ClassDates, datesPattern, text)
		collectMatches(doc, ClassMonetary, monetaryPattern, text)
		collectMatches(doc, ClassSections, sectionsPattern, text)
		collectMatches(doc, ClassAddresses, addressPattern, text)
	}

	doc.ParagraphCount = countParagraphs(text)
	doc.SentenceCount = len(sentenceTerminators.FindAllString(text, -1))
	doc.ContainsTables = strings.Contains(text, "[TABLE]")
	doc.ContainsMonetaryAmounts = monetaryPattern.MatchString(text)

	return doc
}

// collectMatches records whole-pattern matches for a class.
func collectMatches(doc *Document, class string, re *regexp.Regexp, text string) {
	matches := re.FindAllString(text, maxMatchesPerClass)
	if len(matches) > 0 {
		doc.Entities[class] = matches
	}
}

// collectSubmatches records the first capture group for a class.
func collectSubmatches(doc *Document, class string, re *regexp.Regexp, text string) {
	groups := re.FindAllStringSubmatch(text, maxMatchesPerClass)
	if len(groups) == 0 {
		return
	}
	matches := make([]string, 0, len(groups))
	for _, g := range groups {
		matches = append(matches, g[1])
	}
	doc.Entities[class] = matches
}

// countParagraphs counts blank-line-delimited blocks that are non-empty
// after trimming.
func countParagraphs(text string) int {
	count := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	return count
}
