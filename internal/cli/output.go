package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/status"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOrders prints orders as a table with totals formatted for lang.
func writeOrders(w io.Writer, lang string, orders []*order.Order) error {
	p := message.NewPrinter(status.ParseLanguage(lang))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCUSTOMER\tTOTAL\tUPDATED")
	for _, o := range orders {
		customer := "-"
		if o.CustomerID != nil {
			customer = fmt.Sprint(*o.CustomerID)
		}
		total := formatTotal(p, o.Total)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			o.ID, o.Status, customer, total, o.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// formatTotal prints d with two decimals and the separators of p's
// language. The amount never goes through a float.
func formatTotal(p *message.Printer, d decimal.Decimal) string {
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return d.StringFixed(2)
	}

	s := p.Sprint(number.Decimal(n)) + decimalSeparator(p) + frac
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}

func decimalSeparator(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	return strings.TrimSuffix(strings.TrimPrefix(s, "1"), "5")
}

// StatusResult is the outcome of one set-status assignment.
type StatusResult struct {
	Error     string       `json:"error,omitempty"`
	Status    order.Status `json:"status"`
	Requested order.Status `json:"requested,omitempty"`
	OrderID   order.ID     `json:"order_id"`
}

// statusResults has one row per accepted change, in selection order
// within each order, and an unchanged row for orders without one.
func statusResults(snapshots []status.Snapshot, transitions []*status.Transition) []StatusResult {
	byOrder := make(map[order.ID][]*status.Transition)
	for _, t := range transitions {
		byOrder[t.OrderID] = append(byOrder[t.OrderID], t)
	}

	out := make([]StatusResult, 0, len(snapshots))
	for _, s := range snapshots {
		ts := byOrder[s.OrderID]
		if len(ts) == 0 {
			out = append(out, StatusResult{OrderID: s.OrderID, Status: s.Confirmed})
			continue
		}
		for _, t := range ts {
			r := StatusResult{OrderID: s.OrderID, Status: s.Confirmed, Requested: t.Requested}
			if err := t.Err(); err != nil {
				r.Error = err.Error()
			}
			out = append(out, r)
		}
	}
	return out
}

func writeStatusResults(w io.Writer, results []StatusResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tSTATUS\tRESULT")
	for _, r := range results {
		result := "unchanged"
		switch {
		case r.Error != "":
			result = "rolled back: " + r.Error
		case r.Requested != "":
			result = "updated"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.OrderID, r.Status, result)
	}
	return tw.Flush()
}
