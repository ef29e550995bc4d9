package series

import "github.com/jwtly10/tradestats/internal/logging"

var seriesLog = logging.New("series")

// Registry owns every series of a backtest, keyed by kind. Series are created
// through CreateSeries so the registry keeps ownership by name and kind.
type Registry struct {
	axis   *Axis
	series map[Kind]*Series
	order  []Kind
}

func NewRegistry(axis *Axis) *Registry {
	return &Registry{
		axis:   axis,
		series: make(map[Kind]*Series),
	}
}

func (r *Registry) Axis() *Axis {
	return r.axis
}

// CreateSeries registers a new empty series of kind bound to the registry
// axis. An existing series of the same kind is replaced.
func (r *Registry) CreateSeries(kind Kind) *Series {
	s := &Series{Kind: kind, Name: string(kind), axis: r.axis}
	if _, exists := r.series[kind]; !exists {
		r.order = append(r.order, kind)
	} else {
		seriesLog.Debug("Replacing series", "kind", kind)
	}
	r.series[kind] = s
	return s
}

func (r *Registry) Series(kind Kind) (*Series, bool) {
	s, ok := r.series[kind]
	return s, ok
}

// All returns the registered series in creation order.
func (r *Registry) All() []*Series {
	out := make([]*Series, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.series[k])
	}
	return out
}
