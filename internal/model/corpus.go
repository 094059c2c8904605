package model

// Sample is a normalized labeled text.
type Sample struct {
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
}

// Corpus is an ordered collection of samples.
type Corpus struct {
	Name    string   `json:"name"`
	Samples []Sample `json:"samples"`
}

// NewCorpus creates a new corpus with the given samples.
func NewCorpus(name string, samples ...Sample) Corpus {
	return Corpus{
		Name:    name,
		Samples: samples,
	}
}

// Len returns the number of samples.
func (c Corpus) Len() int {
	return len(c.Samples)
}

// Texts returns the texts of the corpus in order.
func (c Corpus) Texts() []string {
	texts := make([]string, len(c.Samples))
	for i, s := range c.Samples {
		texts[i] = s.Text
	}
	return texts
}

// Labels returns the class index of each sample in order.
func (c Corpus) Labels() []int {
	labels := make([]int, len(c.Samples))
	for i, s := range c.Samples {
		labels[i] = s.Sentiment.Index()
	}
	return labels
}

// Counts returns the number of samples per class.
func (c Corpus) Counts() map[Sentiment]int {
	counts := make(map[Sentiment]int, len(Sentiments))
	for _, s := range Sentiments {
		counts[s] = 0
	}
	for _, s := range c.Samples {
		counts[s.Sentiment]++
	}
	return counts
}
