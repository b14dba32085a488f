package metrics

import "github.com/prometheus/client_golang/prometheus"

// InventoryMetrics exposes blood-stock gauges and update counters.
type InventoryMetrics struct {
	units        *prometheus.GaugeVec
	low          *prometheus.GaugeVec
	updatesTotal *prometheus.CounterVec
}

func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	m := &InventoryMetrics{
		units: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hospital",
			Subsystem: "blood_bank",
			Name:      "units",
			Help:      "Units in stock per blood group",
		}, []string{"blood_group"}),
		low: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hospital",
			Subsystem: "blood_bank",
			Name:      "low_stock",
			Help:      "1 when the blood group is below the shortage threshold",
		}, []string{"blood_group"}),
		updatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "blood_bank",
			Name:      "stock_updates_total",
			Help:      "Stock adjustments by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.units, m.low, m.updatesTotal)
	return m
}

func (m *InventoryMetrics) SetLevel(bloodGroup string, units int, low bool) {
	if m == nil {
		return
	}
	m.units.WithLabelValues(bloodGroup).Set(float64(units))
	flag := 0.0
	if low {
		flag = 1
	}
	m.low.WithLabelValues(bloodGroup).Set(flag)
}

func (m *InventoryMetrics) ObserveUpdate(result string) {
	if m == nil {
		return
	}
	m.updatesTotal.WithLabelValues(result).Inc()
}

// NotificationMetrics counts outbound emails.
type NotificationMetrics struct {
	sentTotal *prometheus.CounterVec
}

func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	m := &NotificationMetrics{
		sentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Outbound notification emails by kind and status",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sentTotal)
	return m
}

func (m *NotificationMetrics) ObserveSend(kind string, ok bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.sentTotal.WithLabelValues(kind, status).Inc()
}
