// Package pipeline provides the scheduling pipeline shared by the CLI and
// the HTTP API.
//
// This package implements the complete read → analyze → render pipeline. By
// centralizing it, both entry points validate options, log, cache and report
// errors the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: Tokenize a task file (text, TOML, JSON or YAML) into records
//  2. Analyze: Build the graph, order it, and run the critical path passes
//  3. Render: Serialize the schedule (JSON, CSV) or draw it (DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
// Only rendered diagrams are cached; analysis is always recomputed.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "data/plan.txt",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	records, err := runner.Read(ctx, opts)
//	result, err := runner.Analyze(ctx, records, opts)
//	data, err := runner.Render(ctx, result, "png", opts)
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/schedulator/pkg/cpm"
	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/dag/topo"
	"github.com/matzehuels/schedulator/pkg/errors"
	schedio "github.com/matzehuels/schedulator/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPathLimit caps how many critical paths are enumerated.
	// Graphs with many parallel zero-slack branches have exponentially many.
	DefaultPathLimit = 10

	// DefaultArtifactTTL is how long rendered diagrams stay cached.
	DefaultArtifactTTL = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatCSV:  true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// cachedFormats are the formats rendered through Graphviz.
var cachedFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatJSON: "application/json",
	FormatCSV:  "text/csv; charset=utf-8",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the scheduling pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Read options
	Path  string `json:"path,omitempty"`
	Input string `json:"input,omitempty"` // input format; inferred from Path when empty

	// Analyze options
	Parallel  int `json:"parallel,omitempty"`   // rank-level workers; <2 runs sequentially
	PathLimit int `json:"path_limit,omitempty"` // max critical paths to enumerate

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"` // bypass cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger   `json:"-"`
	TTL    time.Duration `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID uuid.UUID

	// Graph is the validated task graph.
	Graph *dag.Graph

	// Order is the topological order with ranks.
	Order *topo.Order

	// Schedule holds the computed timing of every task.
	Schedule *cpm.Schedule

	// Paths lists up to PathLimit critical paths, the first being
	// Schedule.CriticalPath.
	Paths [][]string

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts were served from cache.
	CacheInfo CacheInfo
}

// Report converts the result into its serialized form.
func (r *Result) Report() schedio.Report {
	return schedio.NewReport(r.Schedule, r.Paths)
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TaskCount   int
	EdgeCount   int
	Levels      int
	ReadTime    time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for rendered artifacts.
type CacheInfo struct {
	RenderHits []string // formats served from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRead(); err != nil {
		return err
	}
	o.SetAnalyzeDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRead checks the input location and format.
func (o *Options) ValidateForRead() error {
	if o.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "path is required")
	}
	if o.Input != "" {
		if _, err := schedio.ParseFormat(o.Input); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// SetAnalyzeDefaults sets default values for analysis.
func (o *Options) SetAnalyzeDefaults() {
	if o.PathLimit == 0 {
		o.PathLimit = DefaultPathLimit
	}
	if o.Parallel < 0 {
		o.Parallel = 0
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.TTL == 0 {
		o.TTL = DefaultArtifactTTL
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

// AnalyzeOptions returns the cpm options implied by o.
func (o *Options) AnalyzeOptions() []cpm.Option {
	if o.Parallel > 1 {
		return []cpm.Option{cpm.WithParallel(o.Parallel)}
	}
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
}

func errorf(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
