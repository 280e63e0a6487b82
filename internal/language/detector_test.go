package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEnglish(t *testing.T) {
	detector := NewDetector()
	code := detector.Detect("The checkout page is really easy to use and the delivery was fast.")
	assert.Equal(t, "en", code)
}

func TestDetectFrench(t *testing.T) {
	detector := NewDetector()
	code := detector.Detect("La page de paiement est vraiment simple à utiliser et la livraison était rapide.")
	assert.Equal(t, "fr", code)
}

func TestDetectEmptyText(t *testing.T) {
	detector := NewDetector()
	assert.Equal(t, Unknown, detector.Detect(""))
	assert.Equal(t, Unknown, detector.Detect("   \t\n"))
}
