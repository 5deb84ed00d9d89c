package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	CollectionsCreatedTotal prometheus.Counter
	TokensMintedTotal       *prometheus.CounterVec
	ListingsCreatedTotal    prometheus.Counter
	SalesSettledTotal       prometheus.Counter
	SaleVolumeTotal         prometheus.Counter
	FeesAccruedTotal        prometheus.Counter
	RejectedOperationsTotal *prometheus.CounterVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		CollectionsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_collections_created_total",
			Help: "The total number of collections created through the factory",
		}),
		TokensMintedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "market_tokens_minted_total",
			Help: "The total number of minted assets",
		}, []string{"model"}),
		ListingsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_listings_created_total",
			Help: "The total number of listings created",
		}),
		SalesSettledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_sales_settled_total",
			Help: "The total number of settled sales",
		}),
		SaleVolumeTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_sale_volume_total",
			Help: "The cumulative sale volume in base units",
		}),
		FeesAccruedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "market_fees_accrued_total",
			Help: "The cumulative marketplace fees accrued in base units",
		}),
		RejectedOperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "market_rejected_operations_total",
			Help: "Operations rejected by settlement guards",
		}, []string{"reason"}),
	}
}
