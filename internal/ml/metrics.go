package ml

// ConfusionMatrix counts predictions by true class (row) and predicted class (column).
type ConfusionMatrix [][]int

// NewConfusionMatrix tallies truth against pred. Labels outside [0, classes)
// are ignored.
func NewConfusionMatrix(classes int, truth, pred []int) ConfusionMatrix {
	m := make(ConfusionMatrix, classes)
	for i := range m {
		m[i] = make([]int, classes)
	}
	for i := range min(len(truth), len(pred)) {
		t, p := truth[i], pred[i]
		if t < 0 || t >= classes || p < 0 || p >= classes {
			continue
		}
		m[t][p]++
	}
	return m
}

// Total is the number of tallied samples.
func (m ConfusionMatrix) Total() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// Accuracy is the share of samples on the diagonal.
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	correct := 0
	for i := range m {
		correct += m[i][i]
	}
	return float64(correct) / float64(total)
}

// Precision for class c: correct predictions of c over all predictions of c.
func (m ConfusionMatrix) Precision(c int) float64 {
	predicted := 0
	for i := range m {
		predicted += m[i][c]
	}
	if predicted == 0 {
		return 0
	}
	return float64(m[c][c]) / float64(predicted)
}

// Recall for class c: correct predictions of c over all true members of c.
func (m ConfusionMatrix) Recall(c int) float64 {
	actual := 0
	for _, v := range m[c] {
		actual += v
	}
	if actual == 0 {
		return 0
	}
	return float64(m[c][c]) / float64(actual)
}
