package app

import (
	"fmt"
	"path/filepath"

	"github.com/nickerso/cellml-decompose/internal/decompose"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Report is the YAML summary of one run.
type Report struct {
	RunID       string             `yaml:"run_id"`
	Locator     string             `yaml:"locator"`
	Output      string             `yaml:"output"`
	Model       string             `yaml:"model,omitempty"`
	Status      string             `yaml:"status"`
	Error       string             `yaml:"error,omitempty"`
	Fragments   []ReportFragment   `yaml:"fragments,omitempty"`
	Roles       map[string]int     `yaml:"roles,omitempty"`
	Connections int                `yaml:"connections"`
	Dropped     []string           `yaml:"dropped,omitempty"`
	Failed      []string           `yaml:"failed_writes,omitempty"`
	Metrics     map[string]float64 `yaml:"metrics,omitempty"`
}

// ReportFragment is one fragment entry of a Report.
type ReportFragment struct {
	Kind    string `yaml:"kind"`
	File    string `yaml:"file"`
	Written bool   `yaml:"written"`
}

const statusFailed = "failed"

func newReport(runID string, cfg *Config, res *decompose.Result) *Report {
	r := &Report{RunID: runID, Locator: cfg.Locator, Output: cfg.OutputDir, Status: statusFailed}
	if res == nil {
		return r
	}

	r.Model = res.Model
	r.Status = res.Status()
	r.Connections = res.Connections

	written := make(map[string]bool, len(res.Written))
	for _, f := range res.Written {
		written[f] = true
	}
	for _, f := range res.Fragments {
		r.Fragments = append(r.Fragments, ReportFragment{Kind: f.Kind.String(), File: f.File, Written: written[f.File]})
	}

	r.Roles = make(map[string]int, len(res.Roles))
	for role, n := range res.Roles {
		r.Roles[role.String()] = n
	}
	for _, e := range res.Dropped {
		r.Dropped = append(r.Dropped, e.Error())
	}
	for _, e := range res.Failed {
		r.Failed = append(r.Failed, e.Error())
	}
	return r
}

func writeReport(fs afero.Fs, path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
