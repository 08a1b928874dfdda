package query

import (
	"time"

	"github.com/mvijayanand/tracing-framework/internal/tracedb"
	"github.com/mvijayanand/tracing-framework/internal/zone"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

// ZoneMatches is the set of matching record indices within one zone,
// in the order the scan encountered them (ascending post-sort index).
type ZoneMatches struct {
	ZoneName string
	Zone     *zone.Zone
	Indices  []uint32
}

// Result is the outcome of one Engine.Run: the compiled expression,
// the matching events per zone, and the scan's elapsed duration.
type Result struct {
	Expr    *Expr
	Matches []ZoneMatches
	Elapsed time.Duration
}

// Count returns the total number of matching events across every
// zone.
func (r *Result) Count() int {
	n := 0
	for _, zm := range r.Matches {
		n += len(zm.Indices)
	}
	return n
}

// Engine scans a database's zones with a compiled query expression.
// Scans are synchronous and not cancellable; Run and RunCompiled always
// scan every committed event of every zone.
type Engine struct {
	db *tracedb.Database
}

// NewEngine binds an Engine to a database.
func NewEngine(db *tracedb.Database) *Engine {
	return &Engine{db: db}
}

// Run compiles src and scans every zone's committed events, returning
// exactly the events whose type name satisfies the predicate.
func (eng *Engine) Run(src string) (*Result, error) {
	expr, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return eng.RunCompiled(expr), nil
}

// RunCompiled scans with an already-compiled expression, letting
// callers reuse one Expr across repeated scans (e.g. a panel
// re-querying as new zones commit).
func (eng *Engine) RunCompiled(expr *Expr) *Result {
	start := time.Now()

	var matches []ZoneMatches
	for _, z := range eng.db.Zones() {
		idx := scanZone(z, expr)
		if len(idx) > 0 {
			matches = append(matches, ZoneMatches{ZoneName: z.Name, Zone: z, Indices: idx})
		}
	}

	return &Result{Expr: expr, Matches: matches, Elapsed: time.Since(start)}
}

func scanZone(z *zone.Zone, expr *Expr) []uint32 {
	var idx []uint32
	it := z.Store.Begin()
	for !it.Done() {
		if expr.MatchName(it.TypeName()) {
			idx = append(idx, it.ID())
		}
		it.Next()
	}
	return idx
}

// Filter adapts Expr to tracetypes.Filter, so a compiled query
// expression can also gate the statistics aggregator's Rebuild over
// the same name predicate it uses for a plain query scan.
func (e *Expr) Filter() tracetypes.Filter {
	return func(v tracetypes.EventView) bool { return e.MatchName(v.TypeName()) }
}
