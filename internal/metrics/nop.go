package metrics

// NopMetrics discards every metric.
type NopMetrics struct{}

var _ Recorder = (*NopMetrics)(nil)

// NewNop creates a new no-op recorder.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (n *NopMetrics) RecordDrawCompleted(_ /* filled */, _ /* attempts */ int, _ /* seconds */ float64) {}

func (n *NopMetrics) RecordDrawInfeasible() {}

func (n *NopMetrics) RecordManualEntry(_ /* result */ string) {}

func (n *NopMetrics) RecordValidation(_ /* result */ string) {}

func (n *NopMetrics) RecordStoreError(_ /* op */ string) {}

func (n *NopMetrics) RecordStaleRead() {}
