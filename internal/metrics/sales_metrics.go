package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SalesMetrics содержит метрики движка обработки продаж.
type SalesMetrics struct {
	// Счётчики операций
	salesSubmitted prometheus.Counter
	salesCompleted prometheus.Counter
	salesRejected  *prometheus.CounterVec
	salesFailed    prometheus.Counter

	// Гистограмма времени фиксации продажи
	saleDuration prometheus.Histogram

	// Объёмные счётчики
	unitsSold prometheus.Counter
	restocks  prometheus.Counter

	// Gauge для продаж в обработке
	activeSales prometheus.Gauge
}

// NewSalesMetrics создаёт новый экземпляр метрик продаж.
func NewSalesMetrics() *SalesMetrics {
	return newSalesMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newSalesMetricsWithRegisterer(registerer prometheus.Registerer) *SalesMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SalesMetrics{
		salesSubmitted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_sales_submitted_total",
			Help: "Total number of sale submissions received",
		}),
		salesCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_sales_completed_total",
			Help: "Total number of sales committed successfully",
		}),
		salesRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ims_sales_rejected_total",
			Help: "Total number of sales rejected, by reason",
		}, []string{"reason"}),
		salesFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_sales_failed_total",
			Help: "Total number of sales failed on infrastructure errors",
		}),
		saleDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "ims_sale_duration_seconds",
			Help:    "Duration of sale submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		unitsSold: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_units_sold_total",
			Help: "Total number of product units sold",
		}),
		restocks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_restocks_total",
			Help: "Total number of stock replenishments",
		}),
		activeSales: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "ims_active_sales",
			Help: "Number of sale submissions currently in flight",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordSaleSubmitted увеличивает счётчик поступивших продаж.
func (m *SalesMetrics) RecordSaleSubmitted() {
	m.salesSubmitted.Inc()
	m.RecordSaleInFlightStarted()
}

// RecordSaleCompleted увеличивает счётчик зафиксированных продаж.
func (m *SalesMetrics) RecordSaleCompleted() {
	m.salesCompleted.Inc()
}

// RecordSaleRejected увеличивает счётчик бизнес-отказов по причине.
func (m *SalesMetrics) RecordSaleRejected(reason string) {
	m.salesRejected.WithLabelValues(reason).Inc()
}

// RecordSaleFailed увеличивает счётчик инфраструктурных сбоев.
func (m *SalesMetrics) RecordSaleFailed() {
	m.salesFailed.Inc()
}

// RecordSaleInFlightStarted увеличивает количество продаж в обработке.
func (m *SalesMetrics) RecordSaleInFlightStarted() {
	m.activeSales.Inc()
}

// RecordSaleInFlightFinished уменьшает количество продаж в обработке.
func (m *SalesMetrics) RecordSaleInFlightFinished() {
	m.activeSales.Dec()
}

// RecordSaleDuration записывает время обработки продажи.
func (m *SalesMetrics) RecordSaleDuration(duration time.Duration) {
	m.saleDuration.Observe(duration.Seconds())
}

// RecordUnitsSold увеличивает счётчик проданных единиц.
func (m *SalesMetrics) RecordUnitsSold(units int) {
	m.unitsSold.Add(float64(units))
}

// RecordRestock увеличивает счётчик пополнений склада.
func (m *SalesMetrics) RecordRestock() {
	m.restocks.Inc()
}
