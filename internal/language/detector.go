package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Unknown is the sentinel tag attached to comments whose language could not
// be determined.
const Unknown = "unknown"

// Detector returns a lowercase ISO 639-1 code for a piece of text, or the
// Unknown sentinel. It never fails: detection problems degrade to Unknown so
// callers have no error branch for this call.
type Detector interface {
	Detect(text string) string
}

type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector over all languages lingua knows about.
// Model files are loaded lazily on first use.
func NewDetector() Detector {
	return &linguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

func (d *linguaDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return Unknown
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
