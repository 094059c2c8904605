package ml

import (
	"fmt"

	"github.com/drakos74/opistocks/internal/text"
	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// RandomForest classifies the dense form of the feature rows.
// It is not part of the default sweep since it does not scale with the vocabulary size.
type RandomForest struct {
	trees  int
	dim    int
	forest *randomforest.Forest
}

// NewForest creates a forest of n trees.
func NewForest(n int) *RandomForest {
	return &RandomForest{
		trees: n,
	}
}

func (rf *RandomForest) Fit(x []text.Vector, y []int, dim int) error {
	if _, err := classes(x, y); err != nil {
		return err
	}
	xData := make([][]float64, len(x))
	for i, row := range x {
		xData[i] = row.Dense(dim)
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: xData, Class: y}
	forest.Train(rf.trees)
	rf.forest = forest
	rf.dim = dim
	log.Debug().Int("trees", rf.trees).Int("features", dim).Int("samples", len(x)).Msg("trained forest")
	return nil
}

func (rf *RandomForest) Predict(x []text.Vector) ([]int, error) {
	if rf.forest == nil {
		return nil, ErrNotFitted
	}
	predictions := make([]int, len(x))
	for i, row := range x {
		votes := rf.forest.Vote(row.Dense(rf.dim))
		if len(votes) == 0 {
			return nil, fmt.Errorf("no votes for row %d", i)
		}
		predictions[i] = floats.MaxIdx(votes)
	}
	return predictions, nil
}
