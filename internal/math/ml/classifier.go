package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/drakos74/opistocks/internal/text"
)

// Kind identifies a classifier family.
type Kind string

const (
	// LinearSVM is a one-vs-rest linear support vector classifier.
	LinearSVM Kind = "svm-linear"
	// KernelSVM is a one-vs-one rbf kernel support vector classifier.
	KernelSVM Kind = "svm-kernel"
	// NaiveBayes is a multinomial naive bayes classifier.
	NaiveBayes Kind = "naive-bayes"
	// Forest is a random forest over the dense feature rows.
	Forest Kind = "random-forest"
)

// Kinds lists the classifier families of the model selection.
var Kinds = []Kind{LinearSVM, KernelSVM, NaiveBayes}

var (
	ErrEmptyTrainingSet = errors.New("empty training set")
	ErrSingleClass      = errors.New("training set has a single class")
	ErrNegativeFeature  = errors.New("negative feature value")
	ErrNotFitted        = errors.New("classifier not fitted")
	ErrNotConverged     = errors.New("classifier did not converge")
	ErrUnknownKind      = errors.New("unknown classifier kind")
	ErrUnsupported      = errors.New("unsupported operation")
)

// Classifier is a multi-class classifier over sparse feature rows.
// Labels are non-negative class indices.
type Classifier interface {
	Fit(x []text.Vector, y []int, dim int) error
	Predict(x []text.Vector) ([]int, error)
}

// Config holds the hyper-parameters of all classifier kinds.
type Config struct {
	C         float64 `json:"c"`
	MaxIter   int     `json:"max_iter"`
	Tolerance float64 `json:"tolerance"`
	// Gamma of the rbf kernel, non-positive means 1 / (features × variance).
	Gamma float64 `json:"gamma"`
	// KernelCache is the number of kernel rows kept in memory.
	KernelCache int     `json:"kernel_cache"`
	Alpha       float64 `json:"alpha"`
	Trees       int     `json:"trees"`
	Seed        uint64  `json:"seed"`
}

// DefaultConfig returns the hyper-parameters used in the model selection.
func DefaultConfig() Config {
	return Config{
		C:           1.0,
		MaxIter:     1000,
		Tolerance:   1e-3,
		KernelCache: 1000,
		Alpha:       1.0,
		Trees:       100,
		Seed:        17,
	}
}

// New creates a classifier of the given kind.
func New(kind Kind, cfg Config) (Classifier, error) {
	switch kind {
	case LinearSVM:
		return NewLinearSVC(cfg), nil
	case KernelSVM:
		return NewKernelSVC(cfg), nil
	case NaiveBayes:
		return NewMultinomialNB(cfg), nil
	case Forest:
		return NewForest(cfg.Trees), nil
	default:
		return nil, fmt.Errorf("'%s': %w", kind, ErrUnknownKind)
	}
}

// Decode restores a fitted classifier from its json form.
func Decode(kind Kind, data []byte) (Classifier, error) {
	var clf Classifier
	switch kind {
	case LinearSVM:
		clf = &LinearSVC{}
	case KernelSVM:
		clf = &KernelSVC{}
	case NaiveBayes:
		clf = &MultinomialNB{}
	case Forest:
		return nil, fmt.Errorf("decode '%s': %w", kind, ErrUnsupported)
	default:
		return nil, fmt.Errorf("'%s': %w", kind, ErrUnknownKind)
	}
	if err := json.Unmarshal(data, clf); err != nil {
		return nil, fmt.Errorf("could not decode '%s' classifier: %w", kind, err)
	}
	return clf, nil
}

// classes validates the training set and returns the sorted distinct labels.
func classes(x []text.Vector, y []int) ([]int, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d rows for %d labels", len(x), len(y))
	}
	seen := make(map[int]bool)
	cc := make([]int, 0)
	for _, label := range y {
		if label < 0 {
			return nil, fmt.Errorf("negative label %d", label)
		}
		if !seen[label] {
			seen[label] = true
			cc = append(cc, label)
		}
	}
	if len(cc) < 2 {
		return nil, fmt.Errorf("class %d only: %w", cc[0], ErrSingleClass)
	}
	sort.Ints(cc)
	return cc, nil
}
