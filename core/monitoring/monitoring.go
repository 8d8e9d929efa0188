// Package monitoring abstracts error reporting so the app can capture
// repository failures without binding the core to a vendor SDK.
package monitoring

// Monitor captures exceptions for out-of-band alerting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush()
}

// NopMonitor discards everything.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush()                                    {}
