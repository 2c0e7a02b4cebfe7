package metrics

import (
	"sync"
	"time"
)

// Monitor accumulates the time spent requesting each endpoint
type Monitor struct {
	m           sync.Mutex
	requestTime map[string]time.Duration
	requests    map[string]int
}

func NewMonitorMetrics() *Monitor {
	return &Monitor{
		requestTime: make(map[string]time.Duration),
		requests:    make(map[string]int),
	}
}

func (p *Monitor) AddRequest(endpoint string, executionTime time.Duration) {
	p.m.Lock()
	p.requestTime[endpoint] += executionTime
	p.requests[endpoint]++

	p.m.Unlock()
}

func (p *Monitor) RequestTime(endpoint string) time.Duration {
	p.m.Lock()
	defer p.m.Unlock()
	return p.requestTime[endpoint]
}

func (p *Monitor) Requests(endpoint string) int {
	p.m.Lock()
	defer p.m.Unlock()
	return p.requests[endpoint]
}

// Snapshot returns a copy of the accumulated request time per endpoint
func (p *Monitor) Snapshot() map[string]time.Duration {
	p.m.Lock()
	defer p.m.Unlock()

	out := make(map[string]time.Duration, len(p.requestTime))
	for endpoint, d := range p.requestTime {
		out[endpoint] = d
	}
	return out
}
