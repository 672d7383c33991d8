package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"wall_display/internal/models"
)

const (
	metricPrefix = "wall_display_"

	resultSuccess = "success"
	resultError   = "error"
)

// Metrics bundles the display loop metrics.
type Metrics struct {
	RedrawsTotal          prometheus.Counter
	WeatherRefreshesTotal *prometheus.CounterVec
	AlarmTransitionsTotal *prometheus.CounterVec
	TouchesTotal          prometheus.Counter
	BacklightLevel        prometheus.Gauge
}

// New constructs the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RedrawsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "redraws_total",
			Help: "Total frames drawn",
		}),
		WeatherRefreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "weather_refreshes_total",
				Help: "Total weather refresh attempts by result",
			},
			[]string{"result"},
		),
		AlarmTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarm_transitions_total",
				Help: "Total alarm phase changes by target phase",
			},
			[]string{"to"},
		),
		TouchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "touches_total",
			Help: "Total accepted (debounced) touches",
		}),
		BacklightLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "backlight_level",
			Help: "Last backlight level written",
		}),
	}
	reg.MustRegister(
		m.RedrawsTotal,
		m.WeatherRefreshesTotal,
		m.AlarmTransitionsTotal,
		m.TouchesTotal,
		m.BacklightLevel,
	)
	return m
}

func (m *Metrics) Redraw() { m.RedrawsTotal.Inc() }

func (m *Metrics) WeatherRefresh(ok bool) {
	result := resultSuccess
	if !ok {
		result = resultError
	}
	m.WeatherRefreshesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) AlarmTransition(to models.AlarmPhase) {
	m.AlarmTransitionsTotal.WithLabelValues(to.String()).Inc()
}

func (m *Metrics) Touch() { m.TouchesTotal.Inc() }

func (m *Metrics) Backlight(level int) { m.BacklightLevel.Set(float64(level)) }
