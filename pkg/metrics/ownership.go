package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ownership mutation labels.
const (
	OwnershipAdded   = "added"
	OwnershipRemoved = "removed"
	OwnershipNoop    = "noop"
	OwnershipFailed  = "failed"
)

// OwnershipMetrics counts ownership mutations.
type OwnershipMetrics struct {
	mutations *prometheus.CounterVec
	quantity  prometheus.Counter
}

// NewOwnershipMetrics registers the ownership counters on the provided registerer.
func NewOwnershipMetrics(reg prometheus.Registerer) *OwnershipMetrics {
	if reg == nil {
		return &OwnershipMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sticker_ownership_mutations_total",
		Help: "Ownership mutations by result.",
	}, []string{"result"})
	quantity := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sticker_ownership_quantity_added_total",
		Help: "Sticker copies added to collections.",
	})
	reg.MustRegister(mutations, quantity)
	return &OwnershipMetrics{mutations: mutations, quantity: quantity}
}

// Inc increments the mutation counter for result.
func (m *OwnershipMetrics) Inc(result string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(result)).Inc()
}

// AddQuantity records copies added by an upsert.
func (m *OwnershipMetrics) AddQuantity(amount int) {
	if m == nil || m.quantity == nil || amount <= 0 {
		return
	}
	m.quantity.Add(float64(amount))
}
