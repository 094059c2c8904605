package ml

import (
	"github.com/sjwhitworth/golearn/evaluation"
)

// Metrics are the classification scores of one class, or an average over classes.
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassMetrics are the metrics of a named class.
type ClassMetrics struct {
	Class string `json:"class"`
	Metrics
}

// Report is the per class precision, recall and f1 of a held-out evaluation.
type Report struct {
	Classes     []ClassMetrics             `json:"classes"`
	Accuracy    float64                    `json:"accuracy"`
	MacroAvg    Metrics                    `json:"macro_avg"`
	WeightedAvg Metrics                    `json:"weighted_avg"`
	Confusion   evaluation.ConfusionMatrix `json:"confusion"`
}

// NewReport compares the predicted against the actual labels.
// Labels index into names, every name gets a row even without support.
// Undefined ratios are reported as 0.
func NewReport(names []string, actual, predicted []int) Report {
	cm := make(evaluation.ConfusionMatrix, len(names))
	for _, ref := range names {
		cm[ref] = make(map[string]int, len(names))
		for _, gen := range names {
			cm[ref][gen] = 0
		}
	}
	for i := range actual {
		cm[names[actual[i]]][names[predicted[i]]]++
	}

	report := Report{
		Classes:   make([]ClassMetrics, len(names)),
		Confusion: cm,
	}
	total := 0
	for i, name := range names {
		tp := evaluation.GetTruePositives(name, cm)
		fp := evaluation.GetFalsePositives(name, cm)
		fn := evaluation.GetFalseNegatives(name, cm)

		m := Metrics{Support: int(tp + fn)}
		if tp+fp > 0 {
			m.Precision = evaluation.GetPrecision(name, cm)
		}
		if tp+fn > 0 {
			m.Recall = evaluation.GetRecall(name, cm)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes[i] = ClassMetrics{Class: name, Metrics: m}
		total += m.Support

		report.MacroAvg.Precision += m.Precision / float64(len(names))
		report.MacroAvg.Recall += m.Recall / float64(len(names))
		report.MacroAvg.F1 += m.F1 / float64(len(names))
	}
	report.MacroAvg.Support = total
	report.WeightedAvg.Support = total
	if total > 0 {
		report.Accuracy = evaluation.GetAccuracy(cm)
		for _, c := range report.Classes {
			w := float64(c.Support) / float64(total)
			report.WeightedAvg.Precision += w * c.Precision
			report.WeightedAvg.Recall += w * c.Recall
			report.WeightedAvg.F1 += w * c.F1
		}
	}
	return report
}

// Summary renders the confusion matrix scores as a table.
func (r Report) Summary() string {
	return evaluation.GetSummary(r.Confusion)
}
