package metrics

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// IndvMetrics is a single metric (or group of collectors) with its register and refresh hooks.
type IndvMetrics struct {
	name     string
	initFn   func(prometheus.Registerer) error
	updateFn func() (interface{}, error)
}

func NewIndvMetrics(
	name string,
	initFn func(prometheus.Registerer) error,
	updateFn func() (interface{}, error)) (*IndvMetrics, error) {

	if name == "" {
		return nil, errors.New("metric name cannot be empty")
	}
	if initFn == nil || updateFn == nil {
		return nil, errors.Errorf("metric %s needs both init and update functions", name)
	}
	return &IndvMetrics{
		name:     name,
		initFn:   initFn,
		updateFn: updateFn,
	}, nil
}

func (i *IndvMetrics) Name() string {
	return i.name
}

func (i *IndvMetrics) Init(reg prometheus.Registerer) error {
	return i.initFn(reg)
}

func (i *IndvMetrics) Update() (interface{}, error) {
	return i.updateFn()
}

// MetricsModule groups the metrics exported by one package.
type MetricsModule struct {
	m           sync.Mutex
	name        string
	details     string
	indvMetrics map[string]*IndvMetrics
	order       []string
}

func NewMetricsModule(name, details string) *MetricsModule {
	return &MetricsModule{
		name:        name,
		details:     details,
		indvMetrics: make(map[string]*IndvMetrics),
		order:       make([]string, 0),
	}
}

func (m *MetricsModule) Name() string {
	return m.name
}

func (m *MetricsModule) Details() string {
	return m.details
}

func (m *MetricsModule) AddIndvMetric(indvMetric *IndvMetrics) error {
	if indvMetric == nil {
		return errors.Errorf("nil metric added to module %s", m.name)
	}
	m.m.Lock()
	defer m.m.Unlock()

	if _, ok := m.indvMetrics[indvMetric.Name()]; ok {
		return errors.Errorf("metric %s already exists in module %s", indvMetric.Name(), m.name)
	}
	m.indvMetrics[indvMetric.Name()] = indvMetric
	m.order = append(m.order, indvMetric.Name())
	return nil
}

func (m *MetricsModule) Init(reg prometheus.Registerer) error {
	m.m.Lock()
	defer m.m.Unlock()

	for _, name := range m.order {
		if err := m.indvMetrics[name].Init(reg); err != nil {
			return errors.Wrapf(err, "unable to init metric %s of module %s", name, m.name)
		}
	}
	return nil
}

// Update refreshes every metric of the module and returns their summaries by name.
func (m *MetricsModule) Update() map[string]interface{} {
	m.m.Lock()
	defer m.m.Unlock()

	summary := make(map[string]interface{}, len(m.order))
	for _, name := range m.order {
		value, err := m.indvMetrics[name].Update()
		if err != nil {
			log.Warnf("unable to update metric %s of module %s: %s", name, m.name, err)
			continue
		}
		summary[name] = value
	}
	return summary
}
