package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCharset(tokens ...string) *Charset {
	toIdx := make(map[string]int, len(tokens))
	for i, t := range tokens {
		toIdx[t] = i
	}
	return &Charset{Tokens: tokens, TokenToIndex: toIdx}
}

func TestArgmax(t *testing.T) {
	idx, val := argmax([]float32{0.1, 0.7, 0.2})
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 0.7, val, 1e-6)

	idx, _ = argmax(nil)
	assert.Equal(t, -1, idx)
}

func TestProbOfIndexProbabilityLike(t *testing.T) {
	// Already a distribution: returned as-is.
	p := probOfIndex([]float32{0.1, 0.7, 0.2}, 1)
	assert.InDelta(t, 0.7, p, 1e-6)
}

func TestProbOfIndexLogits(t *testing.T) {
	// Logits: softmax applied; the dominant logit gets most of the mass.
	p := probOfIndex([]float32{0, 5, 0}, 1)
	assert.Greater(t, p, 0.9)
	assert.LessOrEqual(t, p, 1.0)
}

func TestCTCCollapse(t *testing.T) {
	// blank=0: repeats collapse, blanks separate repeats.
	classes := []int{1, 1, 0, 1, 2, 2, 0, 0, 3}
	probs := []float64{0.9, 0.8, 0.1, 0.7, 0.6, 0.5, 0.1, 0.1, 0.9}

	idx, pr := ctcCollapse(classes, probs)
	assert.Equal(t, []int{1, 1, 2, 3}, idx)
	assert.Equal(t, []float64{0.9, 0.7, 0.6, 0.9}, pr)
}

func TestDecodeCTC(t *testing.T) {
	charset := testCharset("a", "b", "c")

	// 4 timesteps, 4 classes (blank + 3 tokens), probability-like rows.
	logits := []float32{
		0.0, 0.9, 0.05, 0.05, // -> class 1 "a"
		0.0, 0.9, 0.05, 0.05, // repeat, collapsed
		0.9, 0.05, 0.03, 0.02, // blank
		0.0, 0.05, 0.05, 0.9, // -> class 3 "c"
	}
	dec := decodeCTC(logits, 4, 4, charset)
	assert.Equal(t, "ac", dec.Text)
	assert.InDelta(t, 0.9, dec.Confidence, 1e-6)
}

func TestDecodeCTCAllBlank(t *testing.T) {
	charset := testCharset("a")
	logits := []float32{
		0.9, 0.1,
		0.9, 0.1,
	}
	dec := decodeCTC(logits, 2, 2, charset)
	assert.Empty(t, dec.Text)
	assert.Zero(t, dec.Confidence)
}

func TestDecodeCTCMalformedInput(t *testing.T) {
	charset := testCharset("a")
	assert.Empty(t, decodeCTC(nil, 0, 0, charset).Text)
	assert.Empty(t, decodeCTC([]float32{0.5}, 2, 2, charset).Text)
}

func TestCharsetTokenForClass(t *testing.T) {
	charset := testCharset("a", "b")
	require.Equal(t, 2, charset.Size())

	assert.Equal(t, "a", charset.TokenForClass(1))
	assert.Equal(t, "b", charset.TokenForClass(2))
	// Class 0 is the blank.
	assert.Empty(t, charset.TokenForClass(0))
	assert.Empty(t, charset.TokenForClass(3))
	assert.Empty(t, (*Charset)(nil).TokenForClass(1))
}
