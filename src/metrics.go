package callerid

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the receiver and modulator have done.
// A nil *Metrics is allowed everywhere and counts nothing.
type Metrics struct {
	bytesReceived    prometheus.Counter
	messages         *prometheus.CounterVec // type
	invalid          *prometheus.CounterVec // reason
	fields           *prometheus.CounterVec // tag
	acquisitions     prometheus.Counter
	transmitBlocks   prometheus.Counter
	transmitSamples  prometheus.Counter
	transmitFailures prometheus.Counter
}

// NewMetrics registers with reg.  Use prometheus.DefaultRegisterer for
// the process wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	var f = promauto.With(reg)

	return &Metrics{
		bytesReceived: f.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
			Name: "callerid_bytes_received_total",
			Help: "Bytes recovered by the UART",
		}),
		messages: f.NewCounterVec(prometheus.CounterOpts{ //nolint:exhaustruct
			Name: "callerid_messages_total",
			Help: "Valid caller ID messages received, by message type",
		}, []string{"type"}),
		invalid: f.NewCounterVec(prometheus.CounterOpts{ //nolint:exhaustruct
			Name: "callerid_messages_invalid_total",
			Help: "Received messages which failed validation, by reason",
		}, []string{"reason"}),
		fields: f.NewCounterVec(prometheus.CounterOpts{ //nolint:exhaustruct
			Name: "callerid_fields_total",
			Help: "Records parsed from valid messages, by tag",
		}, []string{"tag"}),
		acquisitions: f.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
			Name: "callerid_carrier_acquired_total",
			Help: "Times the demodulator reached the data state",
		}),
		transmitBlocks: f.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
			Name: "callerid_transmit_blocks_total",
			Help: "Sample blocks accepted by the sink",
		}),
		transmitSamples: f.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
			Name: "callerid_transmit_samples_total",
			Help: "Samples accepted by the sink",
		}),
		transmitFailures: f.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
			Name: "callerid_transmit_failures_total",
			Help: "Transmissions aborted by the sink",
		}),
	}
}

func (m *Metrics) byteReceived() {
	if m == nil {
		return
	}

	m.bytesReceived.Inc()
}

func (m *Metrics) acquired() {
	if m == nil {
		return
	}

	m.acquisitions.Inc()
}

func (m *Metrics) messageValid(msg *Message, fields []Field) {
	if m == nil {
		return
	}

	m.messages.WithLabelValues(MessageTypeName(msg.Type())).Inc()

	for _, f := range fields {
		m.fields.WithLabelValues(f.Tag.String()).Inc()
	}
}

func (m *Metrics) messageInvalid(reason string) {
	if m == nil {
		return
	}

	m.invalid.WithLabelValues(reason).Inc()
}

func (m *Metrics) transmitBlock(samples int) {
	if m == nil {
		return
	}

	m.transmitBlocks.Inc()
	m.transmitSamples.Add(float64(samples))
}

func (m *Metrics) transmitFailed() {
	if m == nil {
		return
	}

	m.transmitFailures.Inc()
}
