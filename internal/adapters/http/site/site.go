// Package site renders the dashboard pages with html/template.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/okian/painel/internal/adapters/http/api"
	service "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/internal/domain/table"
	"github.com/okian/painel/pkg/logger"
)

// Error constants
var (
	ErrRender = errors.New("page render failed")
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = func() map[string]*template.Template {
	out := make(map[string]*template.Template)
	for _, name := range []string{"index", "pex", "vendas", "config"} {
		out[name] = template.Must(template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return out
}()

// Dependencies required by the pages.
type Dependencies interface {
	Filters(ctx context.Context) (service.Filters, error)
	Ranking(ctx context.Context, q service.RankingQuery) (service.Ranking, error)
	SalesSummary(ctx context.Context, q service.SalesQuery) (service.SalesReport, error)
	Tables() []string
	ConfigTable(ctx context.Context, name string) (*model.ConfigTable, error)
	PageSize() int
}

// Handler serves the dashboard pages.
type Handler struct {
	deps Dependencies
	log  logger.Logger
}

// NewHandler creates a new page handler.
func NewHandler(deps Dependencies, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{deps: deps, log: log.Named("site")}
}

// Register attaches the page routes to mux.
func Register(_ context.Context, mux *http.ServeMux, h *Handler) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", api.MetricsMiddleware(h.HandleIndex, "page_index"))
	mux.HandleFunc("GET /pex", api.MetricsMiddleware(h.HandlePex, "page_pex"))
	mux.HandleFunc("GET /vendas", api.MetricsMiddleware(h.HandleVendas, "page_vendas"))
	mux.HandleFunc("GET /config/{table}", api.MetricsMiddleware(h.HandleConfig, "page_config"))
}

// panel is the visible error box of a page.
type panel struct {
	Status  int
	Code    string
	Message string
}

type link struct {
	Label string
	Href  string
}

type header struct {
	Label string
	Href  string
	Arrow string
}

// grid is a rendered table view with its navigation links.
type grid struct {
	Headers []header
	Rows    [][]string
	Page    table.Page
	Prev    string
	Next    string
	Exports []link
}

type page struct {
	Title    string
	Error    *panel
	Selected map[string]string
	Filters  service.Filters
	Groups   []service.Choice
	Tables   []string
	Table    string
	Grid     *grid
	Chart    string
	Totals   string
	status   int
}

// fail turns err into the page's error panel.
func (p *page) fail(err error) {
	status, code := api.Classify(err)
	p.status = status
	p.Error = &panel{Status: status, Code: code, Message: err.Error()}
}

// HandleIndex handles GET /.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index", &page{Title: "Painel", Tables: h.deps.Tables()})
}

// HandlePex handles GET /pex.
func (h *Handler) HandlePex(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	p := &page{Title: "Ranking PEX", Selected: selected(v, "period", "indicator", "cluster", "consultant", "group", "q")}
	if p.Selected["indicator"] == "" {
		p.Selected["indicator"] = "total"
	}

	filters, err := h.deps.Filters(r.Context())
	if err != nil {
		p.fail(err)
		h.render(w, r, "pex", p)
		return
	}
	p.Filters = filters

	if err := h.ranking(r, p); err != nil {
		p.fail(err)
	}
	h.render(w, r, "pex", p)
}

// HandleVendas handles GET /vendas.
func (h *Handler) HandleVendas(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	p := &page{
		Title:    "Vendas",
		Selected: selected(v, "from", "to", "unit", "cluster", "consultant", "group", "q"),
		Groups: []service.Choice{
			{Value: "unit", Label: "Unidade"},
			{Value: "consultant", Label: "Consultor"},
			{Value: "cluster", Label: "Cluster"},
			{Value: "month", Label: "Mês"},
			{Value: "product", Label: "Produto"},
		},
	}
	if err := h.sales(r, p); err != nil {
		p.fail(err)
	}
	h.render(w, r, "vendas", p)
}

func (h *Handler) ranking(r *http.Request, p *page) error {
	v := r.URL.Query()
	q, err := api.ParseRankingQuery(v)
	if err != nil {
		return err
	}
	tq, err := api.ParseTableQuery(v, h.deps.PageSize())
	if err != nil {
		return err
	}
	rk, err := h.deps.Ranking(r.Context(), q)
	if err != nil {
		return err
	}
	p.Title = "Ranking PEX · " + rk.Label
	p.Grid = newGrid(r.URL, tq.Run(rk.Rows(), rk.Columns()), "/api/pex/ranking/export")
	p.Chart = withQuery("/api/pex/ranking/chart.png", v)
	return nil
}

func (h *Handler) sales(r *http.Request, p *page) error {
	v := r.URL.Query()
	q, err := api.ParseSalesQuery(v)
	if err != nil {
		return err
	}
	tq, err := api.ParseTableQuery(v, h.deps.PageSize())
	if err != nil {
		return err
	}
	rep, err := h.deps.SalesSummary(r.Context(), q)
	if err != nil {
		return err
	}
	p.Grid = newGrid(r.URL, tq.Run(rep.TableRows(), rep.Columns()), "/api/vendas/export")
	p.Chart = withQuery("/api/vendas/chart.png", v)
	p.Totals = normalize.Currency(rep.Totals.Total)
	return nil
}

// HandleConfig handles GET /config/{table}, a read-only view.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("table")
	p := &page{Title: "Configuração · " + name, Table: name}
	t, err := h.deps.ConfigTable(r.Context(), name)
	if err != nil {
		p.fail(err)
		h.render(w, r, "config", p)
		return
	}
	cols := []table.Column{{Key: "_entity", Label: t.KeyHeader}}
	for _, f := range t.Fields {
		cols = append(cols, table.Column{Key: f, Label: f})
	}
	rows := make([]table.Row, 0, len(t.Rows))
	for _, cr := range t.Rows {
		row := table.Row{"_entity": cr.Entity}
		for k, val := range cr.Values {
			row[k] = val
		}
		rows = append(rows, row)
	}
	tq, err := api.ParseTableQuery(r.URL.Query(), len(rows)+1)
	if err != nil {
		p.fail(err)
	} else {
		p.Grid = newGrid(r.URL, tq.Run(rows, cols), "")
	}
	h.render(w, r, "config", p)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, p *page) {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		h.log.Error(r.Context(), "render failed", logger.String("page", name), logger.Error(err))
		http.Error(w, ErrRender.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p.status != 0 {
		w.WriteHeader(p.status)
	}
	_, _ = w.Write(buf.Bytes())
}

// newGrid renders view with header links that cycle the sort of their
// column and page links that keep every other parameter.
func newGrid(u *url.URL, view table.View, exportPath string) *grid {
	v := u.Query()
	g := &grid{Page: view.Page}
	for _, c := range view.Cols {
		next := view.Sort.Cycle(c.Key)
		hv := clone(v)
		hv.Del("cycle")
		hv.Del("page")
		if next.Active() {
			hv.Set("sort", next.Key)
			hv.Set("dir", next.Dir.String())
		} else {
			hv.Del("sort")
			hv.Del("dir")
		}
		arrow := ""
		if view.Sort.Active() && view.Sort.Key == c.Key {
			arrow = map[table.Direction]string{table.Asc: " ▲", table.Desc: " ▼"}[view.Sort.Dir]
		}
		g.Headers = append(g.Headers, header{Label: c.Label, Href: withQuery(u.Path, hv), Arrow: arrow})
	}
	for _, row := range view.Rows {
		cells := make([]string, len(view.Cols))
		for i, c := range view.Cols {
			cells[i] = c.Text(row)
		}
		g.Rows = append(g.Rows, cells)
	}
	if view.HasPrev() {
		g.Prev = pageLink(u.Path, v, view.Number-1)
	}
	if view.HasNext() {
		g.Next = pageLink(u.Path, v, view.Number+1)
	}
	if exportPath != "" {
		for _, f := range []string{"xlsx", "csv", "tsv"} {
			ev := clone(v)
			ev.Del("page")
			ev.Set("format", f)
			g.Exports = append(g.Exports, link{Label: f, Href: withQuery(exportPath, ev)})
		}
	}
	return g
}

func pageLink(path string, v url.Values, n int) string {
	pv := clone(v)
	pv.Set("page", strconv.Itoa(n))
	return withQuery(path, pv)
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func clone(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = slices.Clone(vals)
	}
	return out
}

func selected(v url.Values, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = v.Get(k)
	}
	return out
}
