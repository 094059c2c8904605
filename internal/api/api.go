package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/drakos74/opistocks/internal/model"
	"github.com/drakos74/opistocks/internal/sentiment"
	"github.com/drakos74/opistocks/internal/server"
	"github.com/drakos74/opistocks/internal/stocks"
	"github.com/drakos74/opistocks/internal/storage"
	"github.com/gorilla/mux"
)

// Validity is the response of the index check.
type Validity struct {
	Valid bool `json:"valid"`
}

// Score is the response of the text classification.
type Score struct {
	Sentiment int `json:"sentiment"`
}

// API serves the stock histories and the sentiment of tweets.
type API struct {
	stocks     stocks.Provider
	classifier *sentiment.Classifier
	timeline   *sentiment.Timeline
}

// New creates the api handlers.
func New(provider stocks.Provider, classifier *sentiment.Classifier, timeline *sentiment.Timeline) *API {
	return &API{
		stocks:     provider,
		classifier: classifier,
		timeline:   timeline,
	}
}

// Routes returns the routes of the api.
func (a *API) Routes() []server.Route {
	return []server.Route{
		server.Live(),
		{Path: "/stocks/{index}", Method: server.GET, Exec: a.history},
		{Path: "/stocks/{index}/{start}/{end}", Method: server.GET, Exec: a.historyBetween},
		{Path: "/index/{index}", Method: server.GET, Exec: a.valid},
		{Path: "/sentiment/{tweet}", Method: server.GET, Exec: a.sentiment},
		{Path: "/sentiment/{index}/{start}/{end}", Method: server.GET, Exec: a.sentimentBetween},
	}
}

func (a *API) history(r *http.Request) ([]byte, int, error) {
	prices, err := a.stocks.History(r.Context(), mux.Vars(r)["index"], time.Time{}, time.Time{})
	if err != nil {
		return nil, code(err), err
	}
	return respond(prices)
}

func (a *API) historyBetween(r *http.Request) ([]byte, int, error) {
	vars := mux.Vars(r)
	from, to, err := dates(vars)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	prices, err := a.stocks.History(r.Context(), vars["index"], from, to)
	if err != nil {
		return nil, code(err), err
	}
	return respond(prices)
}

func (a *API) valid(r *http.Request) ([]byte, int, error) {
	return respond(Validity{Valid: stocks.Valid(r.Context(), a.stocks, mux.Vars(r)["index"])})
}

func (a *API) sentiment(r *http.Request) ([]byte, int, error) {
	score, err := a.classifier.Score(mux.Vars(r)["tweet"])
	if err != nil {
		return nil, code(err), err
	}
	return respond(Score{Sentiment: score})
}

func (a *API) sentimentBetween(r *http.Request) ([]byte, int, error) {
	vars := mux.Vars(r)
	from, to, err := dates(vars)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	points, err := a.timeline.Between(r.Context(), vars["index"], from, to)
	if err != nil {
		return nil, code(err), err
	}
	return respond(points)
}

func dates(vars map[string]string) (time.Time, time.Time, error) {
	from, err := stocks.ParseDate(vars["start"])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := stocks.ParseDate(vars["end"])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s before start %s: %w", to.Format(model.DateLayout), from.Format(model.DateLayout), stocks.ErrInvalidRange)
	}
	return from, to, nil
}

func code(err error) int {
	switch {
	case errors.Is(err, stocks.ErrUnknownIndex):
		return http.StatusNotFound
	case errors.Is(err, stocks.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, storage.NotFoundErr), errors.Is(err, storage.CouldNotLoadErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respond(v interface{}) ([]byte, int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("could not encode response: %w", err)
	}
	return b, http.StatusOK, nil
}
