package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/drakos74/opistocks/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

// ErrLoad marks a dataset that could not be read.
var ErrLoad = errors.New("could not load dataset")

// Row is a raw (text, label) pair as found in the source file.
type Row struct {
	Text  string
	Label string
}

// Stats keeps track of what happened to the rows of a source.
type Stats struct {
	Rows       int `json:"rows"`
	Irrelevant int `json:"irrelevant"`
	Unmapped   int `json:"unmapped"`
	Kept       int `json:"kept"`
}

// Load reads the source and returns its normalized corpus.
func Load(src Source) (model.Corpus, Stats, error) {
	if err := src.Validate(); err != nil {
		return model.Corpus{}, Stats{}, fmt.Errorf("%v: %w", err, ErrLoad)
	}

	rows, err := ReadRows(src)
	if err != nil {
		return model.Corpus{}, Stats{}, err
	}

	samples, stats := Normalize(src, rows)
	log.Info().
		Str("source", src.Name).
		Int("rows", stats.Rows).
		Int("irrelevant", stats.Irrelevant).
		Int("unmapped", stats.Unmapped).
		Int("kept", stats.Kept).
		Msg("loaded dataset")

	return model.NewCorpus(src.Name, samples...), stats, nil
}

// LoadAll loads all sources in order, failing on the first error.
func LoadAll(sources []Source) ([]model.Corpus, error) {
	corpora := make([]model.Corpus, len(sources))
	for i, src := range sources {
		c, _, err := Load(src)
		if err != nil {
			return nil, err
		}
		corpora[i] = c
	}
	return corpora, nil
}

// Normalize maps the raw rows onto the shared sentiment scale.
// Rows with irrelevant or unknown labels are dropped.
func Normalize(src Source, rows []Row) ([]model.Sample, Stats) {
	stats := Stats{Rows: len(rows)}
	samples := make([]model.Sample, 0, len(rows))
	for _, row := range rows {
		label := strings.TrimSpace(row.Label)
		if src.irrelevant(label) {
			stats.Irrelevant++
			continue
		}
		sentiment, ok := src.Mapping[label]
		if !ok {
			stats.Unmapped++
			log.Debug().
				Str("source", src.Name).
				Str("label", label).
				Msg("dropping row with unmapped label")
			continue
		}
		samples = append(samples, model.Sample{
			Text:      row.Text,
			Sentiment: sentiment,
		})
	}
	stats.Kept = len(samples)
	return samples, stats
}

// ReadRows extracts the text and label columns of the source file.
func ReadRows(src Source) ([]Row, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s' for source '%s': %v: %w", src.Path, src.Name, err, ErrLoad)
	}
	defer f.Close()

	r, err := decoder(src.Encoding, f)
	if err != nil {
		return nil, fmt.Errorf("source '%s': %v: %w", src.Name, err, ErrLoad)
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header of '%s': %v: %w", src.Path, err, ErrLoad)
	}
	textIdx, labelIdx := column(header, src.TextColumn), column(header, src.LabelColumn)
	if textIdx < 0 {
		return nil, fmt.Errorf("missing text column '%s' in '%s': %w", src.TextColumn, src.Path, ErrLoad)
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("missing label column '%s' in '%s': %w", src.LabelColumn, src.Path, ErrLoad)
	}

	rows := make([]Row, 0)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("malformed record at line %d of '%s': %v: %w", line, src.Path, err, ErrLoad)
		}
		if len(record) <= textIdx || len(record) <= labelIdx {
			return nil, fmt.Errorf("record at line %d of '%s' has %d fields: %w", line, src.Path, len(record), ErrLoad)
		}
		rows = append(rows, Row{
			Text:  record[textIdx],
			Label: record[labelIdx],
		})
	}
	return rows, nil
}

func decoder(encoding string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", UTF8, "utf8":
		return r, nil
	case Latin1, "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case Windows1252, "windows-1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding '%s'", encoding)
	}
}

func column(header []string, name string) int {
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
