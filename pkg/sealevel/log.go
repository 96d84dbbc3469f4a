package sealevel

import (
	"sync"

	"k8s.io/klog/v2"
)

// Logger receives program log lines.
type Logger interface {
	Log(s string)
}

// LogRecorder is a Logger that keeps every line.
type LogRecorder struct {
	mu   sync.Mutex
	Logs []string
}

func (r *LogRecorder) Log(s string) {
	klog.V(3).Info(s)
	r.mu.Lock()
	r.Logs = append(r.Logs, s)
	r.mu.Unlock()
}

// Lines returns a copy of the recorded lines.
func (r *LogRecorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Logs...)
}

type klogLogger struct{}

func (klogLogger) Log(s string) {
	klog.Info(s)
}

// KlogLogger writes program log lines to klog.
var KlogLogger Logger = klogLogger{}
