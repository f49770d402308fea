package framework

import (
	"encoding/json"
	"io"
)

type jsonReport struct {
	RunID      string           `json:"runId"`
	DurationMS int64            `json:"durationMs"`
	OK         bool             `json:"ok"`
	Tests      []jsonTestResult `json:"tests"`
	Hooks      []jsonHookResult `json:"hooks"`
}

type jsonTestResult struct {
	Path       []string `json:"path"`
	Name       string   `json:"name"`
	Outcome    Outcome  `json:"outcome"`
	Kind       string   `json:"kind,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	SkipReason string   `json:"skipReason,omitempty"`
	Attempts   int      `json:"attempts,omitempty"`
	DurationMS int64    `json:"durationMs"`
}

type jsonHookResult struct {
	ID         string     `json:"id"`
	Kind       HookKind   `json:"kind"`
	Name       string     `json:"name,omitempty"`
	Status     HookStatus `json:"status"`
	Errors     []string   `json:"errors,omitempty"`
	DurationMS int64      `json:"durationMs"`
}

// WriteJSONReport writes the results as a single JSON object. Each test has its group path and
// its own name separately, so CI tooling can rebuild the tree.
func WriteJSONReport(out io.Writer, results Results) error {
	report := jsonReport{
		RunID:      results.RunID,
		DurationMS: results.Duration.Milliseconds(),
		OK:         results.OK(),
		Tests:      make([]jsonTestResult, 0, len(results.Tests)),
		Hooks:      make([]jsonHookResult, 0, len(results.Hooks)),
	}
	for _, t := range results.Tests {
		path := t.TestID.Path
		if len(path) > 0 {
			path = path[:len(path)-1]
		}
		report.Tests = append(report.Tests, jsonTestResult{
			Path:       append([]string{}, path...),
			Name:       t.TestID.Name(),
			Outcome:    t.Outcome,
			Kind:       string(t.Kind),
			Errors:     errorStrings(t.Errors),
			SkipReason: t.SkipReason,
			Attempts:   t.Attempts,
			DurationMS: t.Duration.Milliseconds(),
		})
	}
	for _, h := range results.Hooks {
		report.Hooks = append(report.Hooks, jsonHookResult{
			ID:         h.TestID.String(),
			Kind:       h.Kind,
			Name:       h.Name,
			Status:     h.Status,
			Errors:     errorStrings(h.Errors),
			DurationMS: h.Duration.Milliseconds(),
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func errorStrings(errs []error) []string {
	var ret []string
	for _, err := range errs {
		ret = append(ret, err.Error())
	}
	return ret
}
