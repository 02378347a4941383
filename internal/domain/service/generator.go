package service

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// LegitimateShare is the fraction of generated records that are legitimate.
const LegitimateShare = 0.8

// classProfile describes how one class of synthetic transactions is drawn.
type classProfile struct {
	amount      func(src rand.Source) distuv.Rander
	amountRange [2]float64
	distance    func(src rand.Source) distuv.Rander
	distRange   [2]float64
	typeWeights []float64 // online, in-store, ATM
}

var (
	legitimateProfile = classProfile{
		amount:      func(src rand.Source) distuv.Rander { return distuv.Normal{Mu: 75, Sigma: 50, Src: src} },
		amountRange: [2]float64{1, 500},
		distance:    func(src rand.Source) distuv.Rander { return distuv.Exponential{Rate: 0.1, Src: src} },
		distRange:   [2]float64{0, 100},
		typeWeights: []float64{0.5, 0.3, 0.2},
	}
	fraudulentProfile = classProfile{
		amount:      func(src rand.Source) distuv.Rander { return distuv.Normal{Mu: 300, Sigma: 150, Src: src} },
		amountRange: [2]float64{100, 1000},
		distance:    func(src rand.Source) distuv.Rander { return distuv.Uniform{Min: 50, Max: 500, Src: src} },
		distRange:   [2]float64{50, 500},
		typeWeights: []float64{0.6, 0.3, 0.1},
	}
)

// GenerateTransactions deterministically produces n labeled synthetic
// transactions: int(n*0.8) legitimate followed by the fraudulent rest, then
// shuffled. The same seed and n always yield the same table.
func GenerateTransactions(n int, seed uint64) ([]model.LabeledTransaction, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}

	nLegit := int(float64(n) * LegitimateShare)
	src := rand.NewPCG(seed, seed)

	records := make([]model.LabeledTransaction, 0, n)
	legit, err := legitimateProfile.draw(src, nLegit, false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate legitimate transactions: %w", err)
	}
	records = append(records, legit...)

	fraud, err := fraudulentProfile.draw(src, n-nLegit, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate fraudulent transactions: %w", err)
	}
	records = append(records, fraud...)

	shuffler := rand.New(rand.NewPCG(seed, seed))
	shuffler.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})

	return records, nil
}

// draw samples each column in full before the next one, amount then distance
// then type, all from the shared source.
func (p classProfile) draw(src rand.Source, n int, fraud bool) ([]model.LabeledTransaction, error) {
	if n == 0 {
		return nil, nil
	}

	amounts := sample(p.amount(src), n, p.amountRange)
	distances := sample(p.distance(src), n, p.distRange)

	types := make([]valueobject.TransactionType, n)
	categorical := distuv.NewCategorical(p.typeWeights, src)
	for i := range types {
		t, err := valueobject.TransactionTypeFromCode(int(categorical.Rand()))
		if err != nil {
			return nil, err
		}
		types[i] = t
	}

	out := make([]model.LabeledTransaction, n)
	for i := range out {
		tx, err := model.NewTransaction(decimal.NewFromFloat(amounts[i]), distances[i], types[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = model.LabeledTransaction{Transaction: tx, IsFraud: fraud}
	}
	return out, nil
}

func sample(d distuv.Rander, n int, bounds [2]float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = min(max(d.Rand(), bounds[0]), bounds[1])
	}
	return out
}

// FeatureMatrix splits records into the feature matrix and class labels.
func FeatureMatrix(records []model.LabeledTransaction) ([][]float64, []int) {
	X := make([][]float64, len(records))
	y := make([]int, len(records))
	for i, r := range records {
		X[i] = r.Features()
		y[i] = r.Class()
	}
	return X, y
}
