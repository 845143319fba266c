package api

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/painel/internal/adapters/export"
	service "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/domain/filter"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/ranking"
	"github.com/okian/painel/internal/domain/sales"
	"github.com/okian/painel/internal/domain/table"
)

const maxPageSize = 500

// ParseTableQuery reads q, sort, dir, cycle, page and size. cycle applies one
// header click on top of sort and dir.
func ParseTableQuery(v url.Values, defaultSize int) (table.Query, error) {
	q := table.Query{
		Search: strings.TrimSpace(v.Get("q")),
		Sort: table.SortState{
			Key: v.Get("sort"),
			Dir: table.ParseDirection(v.Get("dir")),
		},
		Page: 1,
		Size: defaultSize,
	}
	if key := v.Get("cycle"); key != "" {
		q.Sort = q.Sort.Cycle(key)
	}
	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return q, fmt.Errorf("%w: page must be a positive integer", ErrBadRequest)
		}
		q.Page = n
	}
	if s := v.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxPageSize {
			return q, fmt.Errorf("%w: size must be between 1 and %d", ErrBadRequest, maxPageSize)
		}
		q.Size = n
	}
	return q, nil
}

// ParseFilter reads the record criteria. Dates accept the sheet formats.
func ParseFilter(v url.Values) (filter.Filter, error) {
	f := filter.Filter{
		Period:     model.NormalizePeriod(v.Get("period")),
		Unit:       v.Get("unit"),
		Cluster:    v.Get("cluster"),
		Consultant: v.Get("consultant"),
		Product:    v.Get("product"),
	}
	var err error
	if f.From, err = date(v, "from"); err != nil {
		return f, err
	}
	if f.To, err = date(v, "to"); err != nil {
		return f, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, fmt.Errorf("%w: to is before from", ErrBadRequest)
	}
	return f, nil
}

func date(v url.Values, name string) (time.Time, error) {
	s := strings.TrimSpace(v.Get(name))
	if s == "" {
		return time.Time{}, nil
	}
	d, err := sales.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// periods collects repeated or comma separated period values.
func periods(v url.Values) []string {
	var out []string
	for _, raw := range v["period"] {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// ParseRankingQuery reads period, indicator, cluster, consultant, unit and
// group. Periods and the scope apply to the ranking itself; unit filters the
// records before aggregation.
func ParseRankingQuery(v url.Values) (service.RankingQuery, error) {
	id, err := service.ParseIndicator(v.Get("indicator"))
	if err != nil {
		return service.RankingQuery{}, err
	}
	q := service.RankingQuery{
		Periods:   periods(v),
		Filter:    filter.Filter{Unit: strings.TrimSpace(v.Get("unit"))},
		Indicator: id,
		Scope: ranking.Scope{
			Cluster:    strings.TrimSpace(v.Get("cluster")),
			Consultant: strings.TrimSpace(v.Get("consultant")),
		},
	}
	if g := v.Get("group"); g != "" {
		q.GroupBy, err = ranking.ParseGroupBy(g)
		if err != nil {
			return q, err
		}
	}
	return q, nil
}

// ParseSalesQuery reads the sales filter and group.
func ParseSalesQuery(v url.Values) (service.SalesQuery, error) {
	f, err := ParseFilter(v)
	if err != nil {
		return service.SalesQuery{}, err
	}
	f.Period = ""
	g, err := sales.ParseGroupBy(v.Get("group"))
	if err != nil {
		return service.SalesQuery{}, err
	}
	return service.SalesQuery{Filter: f, GroupBy: g}, nil
}

// attachment sets the download headers of an export.
func attachment(w http.ResponseWriter, f export.Format, filename string) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
