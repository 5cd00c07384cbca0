package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RangaDM/shopfront/component"
)

// InfrastructureInfo describes one started component in the summary.
type InfrastructureInfo struct {
	Name    string
	Type    string
	Details string
	Port    int
	Healthy bool
}

// RouteInfo is one mounted HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// Summary tracks what came up during startup and prints it as a tree. The
// component sections are collected automatically from the registry; notes
// are free-form lines the caller adds for configuration worth surfacing.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration

	infrastructure []InfrastructureInfo
	routes         []RouteInfo
	notes          []string
}

// NewSummary creates a startup summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName:    serviceName,
		version:        version,
		infrastructure: make([]InfrastructureInfo, 0),
		routes:         make([]RouteInfo, 0),
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// AddNote appends a free-form line to the summary, shown under the header.
// Secrets must be masked by the caller before they get here.
func (s *Summary) AddNote(note string) {
	s.notes = append(s.notes, note)
}

// collect walks the registry and fills the infrastructure and route
// sections from components that describe themselves.
func (s *Summary) collect(registry *component.Registry) {
	if registry == nil {
		return
	}

	s.infrastructure = s.infrastructure[:0]
	s.routes = s.routes[:0]

	for _, c := range registry.All() {
		health := c.Health(context.Background())
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			s.infrastructure = append(s.infrastructure, InfrastructureInfo{
				Name:    desc.Name,
				Type:    desc.Type,
				Details: desc.Details,
				Port:    desc.Port,
				Healthy: health.Status == component.StatusHealthy,
			})
		}
		if rp, ok := c.(component.RouteProvider); ok {
			for _, r := range rp.Routes() {
				s.routes = append(s.routes, RouteInfo{
					Method:  r.Method,
					Path:    r.Path,
					Handler: r.Handler,
				})
			}
		}
	}
}

// Display prints the startup summary including live health from the
// registry.
func (s *Summary) Display(registry *component.Registry) {
	s.collect(registry)

	fmt.Printf("\n")
	fmt.Printf("🚀 %s v%s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	for _, note := range s.notes {
		fmt.Printf("   %s\n", note)
	}
	if len(s.notes) > 0 {
		fmt.Printf("\n")
	}

	if len(s.infrastructure) > 0 {
		fmt.Printf("📊 Components\n")
		for i, inf := range s.infrastructure {
			details := inf.Details
			if inf.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Printf("   %s %s %s: %s\n", treePrefix(i, len(s.infrastructure)), healthIcon(inf.Healthy), inf.Name, details)
		}
		fmt.Printf("\n")
	}

	if len(s.routes) > 0 {
		fmt.Printf("🌐 Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Printf("   %s %-7s %s  %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
		fmt.Printf("\n")
	}

	if registry != nil {
		results := registry.HealthAll(context.Background())
		if len(results) > 0 {
			fmt.Printf("🏥 Health\n")
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = ": " + h.Message
				}
				fmt.Printf("   %s %s %s %s%s\n", treePrefix(i, len(results)), healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
			}
			fmt.Printf("\n")
		}
	}
}

// treePrefix picks the tree branch glyph for item i of n.
func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(healthy bool) string {
	if healthy {
		return "✅"
	}
	return "❌"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
