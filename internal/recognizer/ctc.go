package recognizer

import "math"

// CTC greedy decoding for the recognition model output. The model emits one
// class distribution per horizontal timestep; decoding takes the argmax per
// step, then collapses repeats and drops blanks.

const ctcBlank = 0

// decodedText is the result of decoding one recognition output.
type decodedText struct {
	Text       string
	Confidence float64
}

func argmax(v []float32) (int, float32) {
	if len(v) == 0 {
		return -1, 0
	}
	idx := 0
	maxVal := v[0]
	for i := 1; i < len(v); i++ {
		if v[i] > maxVal {
			maxVal = v[i]
			idx = i
		}
	}
	return idx, maxVal
}

// probOfIndex returns the probability of v[idx] among v. Outputs that already
// sum to one within [0,1] are used as-is; otherwise a stable softmax is
// applied.
func probOfIndex(v []float32, idx int) float64 {
	if len(v) == 0 || idx < 0 || idx >= len(v) {
		return 0
	}
	var sum float64
	minV, maxV := v[0], v[0]
	for _, x := range v {
		sum += float64(x)
		if x < minV {
			minV = x
		}
		if x > maxV {
			maxV = x
		}
	}
	if sum > 0.99 && sum < 1.01 && minV >= 0 && maxV <= 1 {
		return float64(v[idx])
	}
	var denom float64
	for _, x := range v {
		denom += math.Exp(float64(x - maxV))
	}
	if denom == 0 {
		return 0
	}
	return math.Exp(float64(v[idx]-maxV)) / denom
}

// ctcCollapse removes blanks and consecutive repeats, keeping the probability
// recorded at each surviving step.
func ctcCollapse(classes []int, probs []float64) ([]int, []float64) {
	outIdx := make([]int, 0, len(classes))
	outProb := make([]float64, 0, len(probs))
	prev := -1
	for i, c := range classes {
		if c == ctcBlank {
			prev = c
			continue
		}
		if c == prev {
			continue
		}
		outIdx = append(outIdx, c)
		outProb = append(outProb, probs[i])
		prev = c
	}
	return outIdx, outProb
}

// decodeCTC decodes a single recognition output of shape [1, T, C] into text
// using the charset. Confidence is the mean per-character probability.
func decodeCTC(logits []float32, timeSteps, numClasses int, charset *Charset) decodedText {
	if timeSteps <= 0 || numClasses <= 0 || len(logits) < timeSteps*numClasses {
		return decodedText{}
	}
	classes := make([]int, timeSteps)
	probs := make([]float64, timeSteps)
	for t := 0; t < timeSteps; t++ {
		step := logits[t*numClasses : (t+1)*numClasses]
		idx, _ := argmax(step)
		classes[t] = idx
		probs[t] = probOfIndex(step, idx)
	}
	collapsed, collapsedProbs := ctcCollapse(classes, probs)
	if len(collapsed) == 0 {
		return decodedText{}
	}

	var sb []byte
	var sum float64
	for i, c := range collapsed {
		sb = append(sb, charset.TokenForClass(c)...)
		sum += collapsedProbs[i]
	}
	return decodedText{
		Text:       string(sb),
		Confidence: sum / float64(len(collapsed)),
	}
}
