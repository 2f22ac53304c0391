package training

import "xcskit/internal/xcserr"

// Metrics summarizes a batch of predicted actions against the expected
// ones, treating the given action as the positive class.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Score compares predicted and expected actions. Ratios with an empty
// denominator are reported as zero.
func Score(predicted, expected []int, positive int) (Metrics, error) {
	if len(predicted) == 0 {
		return Metrics{}, xcserr.Empty("predicted")
	}
	if len(predicted) != len(expected) {
		return Metrics{}, xcserr.OutOfRange("expected length", float64(len(predicted)), float64(len(predicted)), float64(len(expected)))
	}

	var truePos, falsePos, falseNeg, correct int
	for i, p := range predicted {
		e := expected[i]
		if p == e {
			correct++
		}
		switch {
		case p == positive && e == positive:
			truePos++
		case p == positive && e != positive:
			falsePos++
		case p != positive && e == positive:
			falseNeg++
		}
	}

	m := Metrics{Accuracy: float64(correct) / float64(len(predicted))}
	if truePos+falsePos > 0 {
		m.Precision = float64(truePos) / float64(truePos+falsePos)
	}
	if truePos+falseNeg > 0 {
		m.Recall = float64(truePos) / float64(truePos+falseNeg)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m, nil
}
