package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
)

// Handler serves a View as JSON.
type Handler struct {
	view   *View
	logger *slog.Logger
}

func NewHandler(view *View, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		view:   view,
		logger: logger.With(slog.String("handler", "presenter")),
	}
}

// Routes mounts GET /summary, /series, /series/{name} and /trades.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/series", h.ListSeries)
	r.Get("/series/{name}", h.GetSeries)
	r.Get("/trades", h.GetTrades)

	return r
}

type seriesMeta struct {
	Kind    series.Kind `json:"kind"`
	Name    string      `json:"name"`
	Figure  string      `json:"figure"`
	Sign    string      `json:"sign,omitempty"`
	Len     int         `json:"len"`
	Dropped int         `json:"dropped"`
}

type seriesResponse struct {
	seriesMeta
	Times  []time.Time     `json:"times"`
	Values []float64       `json:"values"`
	Trades []tradeResponse `json:"trades,omitempty"`
}

type tradeResponse struct {
	ID          int               `json:"id"`
	Direction   account.Direction `json:"direction"`
	EntryTime   time.Time         `json:"entry_time"`
	ExitTime    time.Time         `json:"exit_time"`
	EntryPrice  float64           `json:"entry_price"`
	ExitPrice   float64           `json:"exit_price"`
	Size        float64           `json:"size"`
	PnL         float64           `json:"pnl"`
	ProfitRatio float64           `json:"profit_ratio"`
	ExitReason  string            `json:"exit_reason"`
}

func toTradeResponses(trades []account.Trade) []tradeResponse {
	out := make([]tradeResponse, len(trades))
	for i, t := range trades {
		out[i] = tradeResponse{
			ID:          t.ID,
			Direction:   t.Direction,
			EntryTime:   t.EntryTime,
			ExitTime:    t.ExitTime,
			EntryPrice:  t.EntryPrice,
			ExitPrice:   t.ExitPrice,
			Size:        t.SignedSize(),
			PnL:         t.PnL,
			ProfitRatio: t.ProfitRatio,
			ExitReason:  t.ExitReason,
		}
	}
	return out
}

func meta(s *series.Series) seriesMeta {
	return seriesMeta{
		Kind:    s.Kind,
		Name:    s.Name,
		Figure:  s.Figure,
		Sign:    s.Sign,
		Len:     s.Len(),
		Dropped: s.Dropped,
	}
}

// GetSummary handles GET /summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.view.Summary())
}

// ListSeries handles GET /series
func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	all := h.view.Series()
	out := make([]seriesMeta, len(all))
	for i, s := range all {
		out[i] = meta(s)
	}
	render.JSON(w, r, out)
}

// GetSeries handles GET /series/{name}
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, ok := h.view.SeriesByName(name)
	if !ok {
		h.logger.DebugContext(r.Context(), "Series not found", slog.String("name", name))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]interface{}{
			"error": fmt.Sprintf("series %q not found", name),
		})
		return
	}

	resp := seriesResponse{
		seriesMeta: meta(s),
		Values:     s.Values,
	}
	if s.Axis() != nil {
		resp.Times = s.Axis().Times()
	}
	if len(s.Trades) > 0 {
		resp.Trades = toTradeResponses(s.Trades)
	}
	render.JSON(w, r, resp)
}

// GetTrades handles GET /trades
func (h *Handler) GetTrades(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, toTradeResponses(h.view.Trades()))
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Presenter listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("presenter server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("presenter shutdown: %w", err)
		}
		return nil
	}
}
