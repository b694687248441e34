package metric

import "github.com/prometheus/client_golang/prometheus"

// Snapshot is the state read by Collector on every scrape.
type Snapshot struct {
	Keys          int
	ExpiredKeys   uint64
	Channels      int
	Subscriptions int
	Published     uint64
	Delivered     uint64
	Dropped       uint64
	Connections   int64
}

// Collector exports a Snapshot taken at scrape time.
type Collector struct {
	snapshot func() Snapshot

	keys          *prometheus.Desc
	expired       *prometheus.Desc
	channels      *prometheus.Desc
	subscriptions *prometheus.Desc
	published     *prometheus.Desc
	delivered     *prometheus.Desc
	dropped       *prometheus.Desc
	connections   *prometheus.Desc
}

// NewCollector creates a collector that calls snapshot on every scrape.
func NewCollector(snapshot func() Snapshot) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		snapshot:      snapshot,
		keys:          desc("keys", "Live keys in the keyspace."),
		expired:       desc("expired_keys_total", "Keys removed because their TTL passed."),
		channels:      desc("pubsub_channels", "Channels with at least one subscriber."),
		subscriptions: desc("pubsub_subscriptions", "Channel subscriptions across all clients."),
		published:     desc("pubsub_published_total", "Messages published."),
		delivered:     desc("pubsub_delivered_total", "Messages queued to subscribers."),
		dropped:       desc("pubsub_dropped_total", "Messages dropped because a subscriber queue was full."),
		connections:   desc("connected_clients", "Open client connections."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.expired
	ch <- c.channels
	ch <- c.subscriptions
	ch <- c.published
	ch <- c.delivered
	ch <- c.dropped
	ch <- c.connections
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.snapshot()
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(s.Keys))
	ch <- prometheus.MustNewConstMetric(c.expired, prometheus.CounterValue, float64(s.ExpiredKeys))
	ch <- prometheus.MustNewConstMetric(c.channels, prometheus.GaugeValue, float64(s.Channels))
	ch <- prometheus.MustNewConstMetric(c.subscriptions, prometheus.GaugeValue, float64(s.Subscriptions))
	ch <- prometheus.MustNewConstMetric(c.published, prometheus.CounterValue, float64(s.Published))
	ch <- prometheus.MustNewConstMetric(c.delivered, prometheus.CounterValue, float64(s.Delivered))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped))
	ch <- prometheus.MustNewConstMetric(c.connections, prometheus.GaugeValue, float64(s.Connections))
}
