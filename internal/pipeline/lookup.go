// Package pipeline orchestrates the directory → selection → forecast flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sotakimura/rain-lookup/internal/domain"
)

// ErrSelectionIncomplete reports that no location code resolved from the
// given prefecture/city pair. It is a valid interaction state, not a
// component failure; the presentation layer renders "pick a city" instead of
// an error.
var ErrSelectionIncomplete = errors.New("selection incomplete")

// ErrDirectoryEmpty reports that the feed yielded a directory with no usable
// prefectures. Parsing succeeded, but there is nothing to select from.
var ErrDirectoryEmpty = errors.New("location directory is empty")

// DirectoryProvider serves the current directory snapshot.
type DirectoryProvider interface {
	GetOrRebuild(ctx context.Context) (domain.Directory, error)
	Ready() bool
}

// ForecastFetcher retrieves the forecast for a location code.
type ForecastFetcher interface {
	Fetch(ctx context.Context, code string) (domain.Forecast, error)
}

// Lookup wires the directory snapshot, the selection rules, and the forecast
// feed into the two read paths the presentation layer consumes.
type Lookup struct {
	directory DirectoryProvider
	forecasts ForecastFetcher
	defaults  domain.DefaultSelection
	logger    *slog.Logger
}

// NewLookup creates a Lookup pipeline.
func NewLookup(directory DirectoryProvider, forecasts ForecastFetcher, defaults domain.DefaultSelection, logger *slog.Logger) *Lookup {
	return &Lookup{
		directory: directory,
		forecasts: forecasts,
		defaults:  defaults,
		logger:    logger,
	}
}

// CheckReadiness returns nil once a usable directory snapshot is cached.
func (l *Lookup) CheckReadiness(_ context.Context) error {
	if !l.directory.Ready() {
		return errors.New("location directory not loaded")
	}
	return nil
}

// PrefectureView is one dropdown-ready prefecture entry.
type PrefectureView struct {
	Name             string   `json:"name"`
	Cities           []string `json:"cities"`
	DefaultCityIndex int      `json:"default_city_index"`
}

// DirectoryView is the full payload the presentation layer needs to render
// both cascading dropdowns with their defaults preselected.
type DirectoryView struct {
	Prefectures            []PrefectureView `json:"prefectures"`
	DefaultPrefectureIndex int              `json:"default_prefecture_index"`
	Warnings               []string         `json:"warnings,omitempty"`
}

// DirectoryView resolves the current snapshot into dropdown data. Lookup
// misses on the configured defaults degrade to index 0 with a warning.
func (l *Lookup) DirectoryView(ctx context.Context) (DirectoryView, error) {
	dir, err := l.directory.GetOrRebuild(ctx)
	if err != nil {
		return DirectoryView{}, err
	}
	if dir.Empty() {
		return DirectoryView{}, ErrDirectoryEmpty
	}

	view := DirectoryView{
		Prefectures: make([]PrefectureView, len(dir.Prefectures)),
	}

	prefIdx, found := domain.DefaultPrefectureIndex(dir, l.defaults.Prefecture)
	if !found {
		view.Warnings = append(view.Warnings,
			fmt.Sprintf("既定の都道府県 %q が見つかりません。先頭を選択します", l.defaults.Prefecture))
		l.logger.Warn("default prefecture not in directory", "prefecture", l.defaults.Prefecture)
	}
	view.DefaultPrefectureIndex = prefIdx

	for i, p := range dir.Prefectures {
		cityIdx, found := domain.DefaultCityIndex(p.Cities, p.Name, l.defaults)
		if !found {
			view.Warnings = append(view.Warnings,
				fmt.Sprintf("既定の市区町村 %q が %q にありません。先頭を選択します", l.defaults.City, p.Name))
			l.logger.Warn("default city not in its prefecture", "city", l.defaults.City, "prefecture", p.Name)
		}

		names := make([]string, len(p.Cities))
		for j, c := range p.Cities {
			names[j] = c.Name
		}
		view.Prefectures[i] = PrefectureView{
			Name:             p.Name,
			Cities:           names,
			DefaultCityIndex: cityIdx,
		}
	}

	return view, nil
}

// ForecastView is one resolved lookup: the current reading plus the
// three-day table for a prefecture/city selection.
type ForecastView struct {
	Prefecture string            `json:"prefecture"`
	City       string            `json:"city"`
	Code       string            `json:"code"`
	Title      string            `json:"title,omitempty"`
	Current    string            `json:"current"`
	Table      []domain.TableRow `json:"table"`
}

// Forecast resolves a selection to its location code, fetches the forecast,
// and derives the current reading and the display table. Returns
// ErrSelectionIncomplete when the pair resolves to no code, and the fetch
// error unchanged when the feed fails.
func (l *Lookup) Forecast(ctx context.Context, prefecture, city string) (ForecastView, error) {
	dir, err := l.directory.GetOrRebuild(ctx)
	if err != nil {
		return ForecastView{}, err
	}

	cities := domain.CitiesFor(dir, prefecture)
	code, ok := domain.ResolveCode(cities, city)
	if !ok {
		l.logger.Debug("no code for selection", "prefecture", prefecture, "city", city)
		return ForecastView{}, ErrSelectionIncomplete
	}

	forecast, err := l.forecasts.Fetch(ctx, code)
	if err != nil {
		return ForecastView{}, err
	}

	return ForecastView{
		Prefecture: prefecture,
		City:       city,
		Code:       code,
		Title:      forecast.Title,
		Current:    domain.CurrentReading(forecast),
		Table:      domain.ProjectTable(forecast),
	}, nil
}
