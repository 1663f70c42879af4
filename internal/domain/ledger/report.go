package ledger

import (
	"fmt"
	"io"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
)

// WriteReport dumps the sent and received totals for every category and
// destination pair, plus the raw entry counts. It is a debugging aid built
// entirely on the query layer and is not on the simulation's hot path.
func (l *Ledger) WriteReport(w io.Writer, name string) {
	fmt.Fprintf(w, "cargo ledger report: %s\n", name)
	fmt.Fprintf(w, "  entries: sent=%d received=%d\n", l.sent.Count(), l.received.Count())

	for _, c := range cargo.Categories {
		fmt.Fprintf(w, "  %-12s sent=%-6d recv=%-6d", c,
			l.sent.Total(Filter{Category: c}),
			l.received.Total(Filter{Category: c}))
		for _, d := range cargo.Destinations {
			fmt.Fprintf(w, " | %s s=%d r=%d", d,
				l.sent.Total(Filter{Category: c, Destination: d}),
				l.received.Total(Filter{Category: c, Destination: d}))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  total: sent=%d received=%d\n",
		l.sent.Total(Filter{}), l.received.Total(Filter{}))
}
