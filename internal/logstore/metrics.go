package logstore

import "time"

// Metrics captures log-store metric sinks used by the store implementation.
type Metrics interface {
	ObserveLogAppendDuration(d time.Duration)
	ObserveLogApplyDuration(d time.Duration)
	IncLogWriteResult(result string)
	AddLogPurgedRecords(n int64)
	IncLogBackendError(op string)
	SetLogLastIndex(index int64)
	SetLogLastApplied(index int64)
	SetLogFederatedSize(n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveLogAppendDuration(time.Duration) {}
func (noopMetrics) ObserveLogApplyDuration(time.Duration)  {}
func (noopMetrics) IncLogWriteResult(string)               {}
func (noopMetrics) AddLogPurgedRecords(int64)              {}
func (noopMetrics) IncLogBackendError(string)              {}
func (noopMetrics) SetLogLastIndex(int64)                  {}
func (noopMetrics) SetLogLastApplied(int64)                {}
func (noopMetrics) SetLogFederatedSize(int)                {}
