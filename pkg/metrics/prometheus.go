package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	moduleName = "prometheus"
	log        = logrus.WithField(
		"module", moduleName,
	)

	DefaultUpdateInterval = 5 * time.Second
	metricsEndpoint       = "/metrics"
)

// PrometheusMetrics serves the registered metric modules on ip:port/metrics
type PrometheusMetrics struct {
	ctx    context.Context
	cancel context.CancelFunc

	host           string
	port           int
	updateInterval time.Duration

	registry *prometheus.Registry
	server   *http.Server
	wg       sync.WaitGroup

	m       sync.Mutex
	modules []*MetricsModule
}

func NewPrometheusMetrics(pCtx context.Context, ip string, port int) *PrometheusMetrics {
	ctx, cancel := context.WithCancel(pCtx)
	return &PrometheusMetrics{
		ctx:            ctx,
		cancel:         cancel,
		host:           ip,
		port:           port,
		updateInterval: DefaultUpdateInterval,
		registry:       prometheus.NewRegistry(),
		modules:        make([]*MetricsModule, 0),
	}
}

func (p *PrometheusMetrics) AddMeticsModule(mod *MetricsModule) {
	if mod == nil {
		return
	}
	p.m.Lock()
	defer p.m.Unlock()
	p.modules = append(p.modules, mod)
}

func (p *PrometheusMetrics) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusMetrics) Address() string {
	return fmt.Sprintf("%s:%d", p.host, p.port)
}

// Init registers the collectors of every module without serving them.
func (p *PrometheusMetrics) Init() error {
	p.m.Lock()
	defer p.m.Unlock()
	for _, mod := range p.modules {
		if err := mod.Init(p.registry); err != nil {
			return errors.Wrapf(err, "unable to init metrics module %s", mod.Name())
		}
	}
	return nil
}

// Update refreshes every module once.
func (p *PrometheusMetrics) Update() {
	p.m.Lock()
	defer p.m.Unlock()
	for _, mod := range p.modules {
		summary := mod.Update()
		log.Tracef("%s metrics: %v", mod.Name(), summary)
	}
}

func (p *PrometheusMetrics) Start() error {
	if err := p.Init(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(metricsEndpoint, promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	p.server = &http.Server{
		Addr:              p.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		log.Infof("serving prometheus metrics at %s%s", p.Address(), metricsEndpoint)
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("prometheus server stopped: %s", err)
		}
	}()

	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.updateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Update()
			case <-p.ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (p *PrometheusMetrics) Close() {
	p.cancel()
	if p.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.server.Shutdown(ctx); err != nil {
			log.Warnf("unable to shutdown prometheus server: %s", err)
		}
	}
	p.wg.Wait()
	// last refresh so the final values are visible to a late scrape of the registry
	p.Update()
}
