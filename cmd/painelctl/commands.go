package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/painel/internal/adapters/chart"
	"github.com/okian/painel/internal/adapters/export"
	"github.com/okian/painel/internal/adapters/http/api"
	"github.com/okian/painel/internal/domain/table"
)

// query holds the filter flags. They are passed through the same parsers
// as the HTTP query string so both surfaces accept identical values.
type query struct {
	periods    []string
	indicator  string
	unit       string
	cluster    string
	consultant string
	product    string
	from       string
	to         string
	group      string
	search     string
	sort       string
	dir        string
}

func (q *query) values() url.Values {
	v := url.Values{}
	if len(q.periods) > 0 {
		v.Set("period", strings.Join(q.periods, ","))
	}
	for k, s := range map[string]string{
		"indicator":  q.indicator,
		"unit":       q.unit,
		"cluster":    q.cluster,
		"consultant": q.consultant,
		"product":    q.product,
		"from":       q.from,
		"to":         q.to,
		"group":      q.group,
		"q":          q.search,
		"sort":       q.sort,
		"dir":        q.dir,
	} {
		if s != "" {
			v.Set(k, s)
		}
	}
	return v
}

func (q *query) tableFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.search, "search", "q", "", "Keep rows containing this text in any column")
	cmd.Flags().StringVar(&q.sort, "sort", "", "Column key to sort by")
	cmd.Flags().StringVar(&q.dir, "dir", "", "Sort direction: asc or desc")
}

// output selects where and how a command writes its result.
type output struct {
	path   string
	format string
	chart  bool
	limit  int
}

func (o *output) flags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.path, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "csv", "Export format: csv, tsv or xlsx")
	cmd.Flags().BoolVar(&o.chart, "chart", false, "Render a PNG bar chart instead of a table export")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "Maximum bars in the chart (default: chart_limit)")
}

// write sends buf to the output file, or stdout when no path was given.
func (o *output) write(cmd *cobra.Command, buf *bytes.Buffer) error {
	if o.path == "" {
		_, err := io.Copy(cmd.OutOrStdout(), buf)
		return err
	}
	if err := os.WriteFile(o.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", o.path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", o.path)
	return nil
}

func newRankingCmd(g *globals) *cobra.Command {
	q := &query{}
	out := &output{}
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Export the PEX ranking or render it as a chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := q.values()
			rq, err := api.ParseRankingQuery(v)
			if err != nil {
				return err
			}
			svc, closeAll, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = closeAll() }()

			rk, err := svc.Ranking(cmd.Context(), rq)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if out.chart {
				if err := chart.RankingPNG(&buf, "Ranking "+rk.Label, rk.Entries, orDefault(out.limit, svc.ChartLimit())); err != nil {
					return err
				}
				return out.write(cmd, &buf)
			}
			format, err := export.ParseFormat(out.format)
			if err != nil {
				return err
			}
			tq, err := api.ParseTableQuery(v, svc.PageSize())
			if err != nil {
				return err
			}
			view := tq.Run(rk.Rows(), rk.Columns())
			if err := export.Write(&buf, format, "Ranking", view.Cols, view.All); err != nil {
				return err
			}
			if out.path == "" && format == export.XLSX {
				out.path = table.Filename("Ranking "+rk.Label, rk.Context(), format.Ext(), svc.Now())
			}
			return out.write(cmd, &buf)
		},
	}
	cmd.Flags().StringSliceVarP(&q.periods, "period", "p", nil, "Periods to include, repeatable (default: all)")
	cmd.Flags().StringVarP(&q.indicator, "indicator", "i", "", "Indicator to rank by (default: total score)")
	cmd.Flags().StringVar(&q.unit, "unit", "", "Aggregate only this unit's records")
	cmd.Flags().StringVar(&q.cluster, "cluster", "", "Restrict to one cluster")
	cmd.Flags().StringVar(&q.consultant, "consultant", "", "Restrict to one consultant")
	cmd.Flags().StringVar(&q.group, "group", "", "Add positions within groups: cluster or consultant")
	q.tableFlags(cmd)
	out.flags(cmd)
	return cmd
}

func newSalesCmd(g *globals) *cobra.Command {
	q := &query{}
	out := &output{}
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Export the Vendas summary or render it as a chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := q.values()
			sq, err := api.ParseSalesQuery(v)
			if err != nil {
				return err
			}
			svc, closeAll, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = closeAll() }()

			rep, err := svc.SalesSummary(cmd.Context(), sq)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if out.chart {
				if err := chart.SalesPNG(&buf, "Vendas por "+string(rep.GroupBy), rep.Summaries, orDefault(out.limit, svc.ChartLimit())); err != nil {
					return err
				}
				return out.write(cmd, &buf)
			}
			format, err := export.ParseFormat(out.format)
			if err != nil {
				return err
			}
			tq, err := api.ParseTableQuery(v, svc.PageSize())
			if err != nil {
				return err
			}
			view := tq.Run(rep.TableRows(), rep.Columns())
			if err := export.Write(&buf, format, "Vendas", view.Cols, view.All); err != nil {
				return err
			}
			if out.path == "" && format == export.XLSX {
				out.path = table.Filename("Vendas", rep.Context(), format.Ext(), svc.Now())
			}
			return out.write(cmd, &buf)
		},
	}
	cmd.Flags().StringVar(&q.from, "from", "", "First sale date, inclusive")
	cmd.Flags().StringVar(&q.to, "to", "", "Last sale date, inclusive")
	cmd.Flags().StringVar(&q.unit, "unit", "", "Restrict to one unit")
	cmd.Flags().StringVar(&q.cluster, "cluster", "", "Restrict to one cluster")
	cmd.Flags().StringVar(&q.consultant, "consultant", "", "Restrict to one consultant")
	cmd.Flags().StringVar(&q.product, "product", "", "Restrict to one product")
	cmd.Flags().StringVar(&q.group, "group", "", "Group by unit, cluster, consultant, product or month")
	q.tableFlags(cmd)
	out.flags(cmd)
	return cmd
}

func newAuditCmd(g *globals) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Print the most recent configuration writes as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeAll, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = closeAll() }()

			entries, err := svc.Audit(cmd.Context(), limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Number of entries to print")
	return cmd
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
