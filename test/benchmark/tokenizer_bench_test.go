package benchmark

import (
	"testing"

	"github.com/ravikiranms/hybridsearch/internal/textpipe"
)

const sampleText = "The Quick Brown Fox jumps over the lazy dog; naïve café-goers watch, unimpressed, while the fox (predictably) repeats the performance again and again."

// BenchmarkTokenize measures raw token splitting without normalization.
func BenchmarkTokenize(b *testing.B) {
	b.SetBytes(int64(len(sampleText)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = textpipe.Tokenize(sampleText)
	}
}

// BenchmarkNormalizeText measures the full pipeline: tokenize, fold,
// strip accents, drop stop words.
func BenchmarkNormalizeText(b *testing.B) {
	n := textpipe.NewNormalizer(textpipe.Options{
		RemoveAccents: true,
		MinTermLength: 2,
	})
	b.SetBytes(int64(len(sampleText)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = n.NormalizeText(sampleText)
	}
}

// BenchmarkFold measures single-string folding, the hot path for facet
// values and fuzzy targets.
func BenchmarkFold(b *testing.B) {
	n := textpipe.NewNormalizer(textpipe.Options{RemoveAccents: true})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = n.Fold("Crème Brûlée à la Mode")
	}
}
