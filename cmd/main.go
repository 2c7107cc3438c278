package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stockpeek/chartsync/internal/api/chartdata"
	"github.com/stockpeek/chartsync/internal/chart"
	"github.com/stockpeek/chartsync/internal/config"
	"github.com/stockpeek/chartsync/internal/model"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

// consoleSurface is a Surface that logs the draw instructions it is handed.
// It stands in for a real rendering backend in this demo binary.
type consoleSurface struct {
	dims   chart.Dimensions
	logger zerolog.Logger
}

func (s *consoleSurface) ApplyOptions(dims chart.Dimensions) {
	s.dims = dims
	s.logger.Info().Int("width", dims.Width).Int("height", dims.Height).Msg("surface resized")
}

func (s *consoleSurface) SetSeries(instructions []chart.DrawInstruction) {
	for _, in := range instructions {
		s.logger.Info().
			Str("type", string(in.Type)).
			Str("name", in.Name).
			Str("axis", string(in.Axis)).
			Int("points", len(in.Points)).
			Msg("series drawn")
	}
}

func (s *consoleSurface) Release() {
	s.logger.Info().Msg("surface released")
}

// fixedContainer has static dimensions and never fires a resize.
type fixedContainer struct{ dims chart.Dimensions }

func (c fixedContainer) Dimensions() chart.Dimensions { return c.dims }
func (c fixedContainer) Subscribe(func()) (cancel func()) { return func() {} }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	repr, err := chart.ParseRepresentation(cfg.Representation)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to line chart")
		repr = chart.RepLine
	}

	client := chartdata.NewClient(chartdata.ClientOptions{
		BaseURL:        cfg.BaseURL,
		AuthToken:      cfg.AuthToken,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     cfg.MaxRetries,
	})

	manager := chart.NewSurfaceManager()
	err = manager.Create(
		fixedContainer{dims: chart.Dimensions{Width: 1280, Height: 400}},
		func(dims chart.Dimensions) (chart.Surface, error) {
			return &consoleSurface{dims: dims, logger: log.With().Str("component", "console_surface").Logger()}, nil
		},
		chart.SurfaceOptions{Representation: repr},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("surface create failed")
	}

	view := chart.NewChartView(chart.ViewOptions{
		Fetcher: client,
		Surface: manager,
		OnIndicatorError: func(kind model.IndicatorKind, fe *chart.FetchError) {
			log.Warn().Str("kind", kind.String()).Int("status", fe.Status).Msg("indicator unavailable")
		},
	})
	defer view.Close()

	ctx := context.Background()
	view.Load(ctx, cfg.Symbol, cfg.Period)
	view.AddIndicator(ctx, model.KindSMA)
	view.AddIndicator(ctx, model.KindRSI)

	view.Wait()
	printSnapshot(view)

	// Period switch: a new scope, overlays dropped, fresh history fetch.
	view.SetPeriod(ctx, model.Period1Y)
	view.Wait()
	printSnapshot(view)
}

func printSnapshot(view *chart.ChartView) {
	state, bundle, fetchErr := view.Snapshot()
	fmt.Printf("state=%s candles=%d overlays=%d\n", state, len(bundle.History), len(bundle.Overlays))
	if fetchErr != nil {
		fmt.Printf("error: %v (check that the symbol and period exist)\n", fetchErr)
	}
	for _, o := range bundle.Overlays {
		fmt.Printf("  overlay %s (%s)\n", o.Kind, o.ID)
	}
}
