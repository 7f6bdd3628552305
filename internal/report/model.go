package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/temirov/readiness/internal/checks"
)

const (
	thresholdRecommendationTemplateConstant = "readiness score %.1f%% is below threshold %.1f%%"
	componentRecommendationTemplateConstant = "component %s readiness %.1f%% is below threshold %.1f%%"
	issueTemplateConstant                   = "[%s] %s: %s"
)

// Metadata identifies the run a report describes.
type Metadata struct {
	Suite      string
	Project    string
	RunID      string
	Threshold  float64
	StartedAt  time.Time
	FinishedAt time.Time
}

// Summary holds the headline figures of a run.
type Summary struct {
	Suite      string    `json:"suite" yaml:"suite"`
	Project    string    `json:"project,omitempty" yaml:"project,omitempty"`
	RunID      string    `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Total      int       `json:"total" yaml:"total"`
	Passed     int       `json:"passed" yaml:"passed"`
	Failed     int       `json:"failed" yaml:"failed"`
	Errored    int       `json:"errored" yaml:"errored"`
	Warnings   int       `json:"warnings" yaml:"warnings"`
	Score      float64   `json:"score" yaml:"score"`
	Threshold  float64   `json:"threshold" yaml:"threshold"`
	Outcome    Outcome   `json:"outcome" yaml:"outcome"`
}

// ComponentMetric counts passed checks per component; Tasks aggregates task-progress items.
type ComponentMetric struct {
	Total      int              `json:"total" yaml:"total"`
	Completed  int              `json:"completed" yaml:"completed"`
	Percentage float64          `json:"percentage" yaml:"percentage"`
	Tasks      *checks.Progress `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// NamedComponent pairs a component name with its metric for ordered rendering.
type NamedComponent struct {
	Name string
	ComponentMetric
}

// Report is the aggregated result of one suite run.
type Report struct {
	Summary         Summary                    `json:"summary" yaml:"summary"`
	Components      map[string]ComponentMetric `json:"components" yaml:"components"`
	Issues          []string                   `json:"issues" yaml:"issues"`
	Recommendations []string                   `json:"recommendations" yaml:"recommendations"`
	Checks          []checks.Result            `json:"checks" yaml:"checks"`
}

// Build aggregates results, preserving their order, into a report.
func Build(metadata Metadata, results []checks.Result) Report {
	summary := Summary{
		Suite:      metadata.Suite,
		Project:    metadata.Project,
		RunID:      metadata.RunID,
		StartedAt:  metadata.StartedAt,
		FinishedAt: metadata.FinishedAt,
		Total:      len(results),
		Threshold:  metadata.Threshold,
	}

	components := make(map[string]ComponentMetric)
	issues := make([]string, 0)
	recommendations := newOrderedSet()
	failingError := false
	failingWarning := false

	for _, result := range results {
		componentName := result.Definition.Component
		if len(componentName) == 0 {
			componentName = checks.DefaultComponent
		}
		metric := components[componentName]
		metric.Total++

		if result.Progress != nil {
			tasks := checks.Progress{}
			if metric.Tasks != nil {
				tasks = *metric.Tasks
			}
			tasks.Total += result.Progress.Total
			tasks.Completed += result.Progress.Completed
			metric.Tasks = &tasks
		}

		switch result.Status {
		case checks.StatusPass:
			summary.Passed++
			metric.Completed++
		case checks.StatusError:
			summary.Errored++
		default:
			summary.Failed++
		}

		if !result.Passed() {
			if result.Definition.Severity == checks.SeverityWarning {
				summary.Warnings++
				failingWarning = true
			} else {
				failingError = true
			}
			issues = append(issues, fmt.Sprintf(issueTemplateConstant, result.Definition.Severity, result.Definition.ID, result.Message))
			recommendations.add(result.Definition.Recommendation)
		}

		components[componentName] = metric
	}

	for componentName, metric := range components {
		metric.Percentage = checks.RoundPercentage(metric.Completed, metric.Total)
		components[componentName] = metric
	}

	summary.Score = checks.RoundPercentage(summary.Passed, summary.Total)
	belowThreshold := summary.Total > 0 && summary.Score < summary.Threshold
	if belowThreshold {
		recommendations.add(fmt.Sprintf(thresholdRecommendationTemplateConstant, summary.Score, summary.Threshold))
	}
	for _, component := range sortedComponents(components) {
		if component.Percentage < summary.Threshold {
			recommendations.add(fmt.Sprintf(componentRecommendationTemplateConstant, component.Name, component.Percentage, summary.Threshold))
		}
	}

	summary.Outcome = decideOutcome(failingError, failingWarning, belowThreshold)

	return Report{
		Summary:         summary,
		Components:      components,
		Issues:          issues,
		Recommendations: recommendations.values,
		Checks:          append([]checks.Result{}, results...),
	}
}

// SortedComponents returns the component metrics ordered by name.
func (report Report) SortedComponents() []NamedComponent {
	return sortedComponents(report.Components)
}

// Duration reports how long the run took.
func (report Report) Duration() time.Duration {
	return report.Summary.FinishedAt.Sub(report.Summary.StartedAt)
}

func sortedComponents(components map[string]ComponentMetric) []NamedComponent {
	named := make([]NamedComponent, 0, len(components))
	for componentName, metric := range components {
		named = append(named, NamedComponent{Name: componentName, ComponentMetric: metric})
	}
	sort.Slice(named, func(left int, right int) bool {
		return named[left].Name < named[right].Name
	})
	return named
}

type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), values: make([]string, 0)}
}

func (set *orderedSet) add(value string) {
	if len(value) == 0 {
		return
	}
	if _, exists := set.seen[value]; exists {
		return
	}
	set.seen[value] = struct{}{}
	set.values = append(set.values, value)
}
