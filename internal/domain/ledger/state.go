package ledger

import (
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
)

// TransferRecord is the persisted form of one transfer. The derived category
// is intentionally absent: it is recomputed through the mapper on restore, so
// a mapping table changed between versions can never drift from stored data.
type TransferRecord struct {
	Timestamp   time.Time         `json:"timestamp"`
	Destination cargo.Destination `json:"destination"`
	Resource    cargo.Resource    `json:"resource"`
	Amount      int               `json:"amount"`
}

// State is the persistable content of one ledger: both logs in append order.
type State struct {
	Sent     []TransferRecord `json:"sent"`
	Received []TransferRecord `json:"received"`
}

func (g *Log) export() []TransferRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]TransferRecord, 0, len(g.entries))
	for _, e := range g.entries {
		out = append(out, TransferRecord{
			Timestamp:   e.Timestamp,
			Destination: e.Destination,
			Resource:    e.Resource,
			Amount:      e.Amount,
		})
	}
	return out
}

func (g *Log) restore(recs []TransferRecord) {
	for _, r := range recs {
		g.Append(r.Timestamp, r.Destination, r.Resource, r.Amount)
	}
}

// ExportState copies both logs out for persistence. None-typed entries are
// exported too; the export is the full history, not an aggregation.
func (l *Ledger) ExportState() State {
	return State{
		Sent:     l.sent.export(),
		Received: l.received.export(),
	}
}

// RestoreState appends every stored record back onto the ledger in order,
// re-deriving each entry's category from its resource kind.
func (l *Ledger) RestoreState(s State) {
	l.sent.restore(s.Sent)
	l.received.restore(s.Received)
}
