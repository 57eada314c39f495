package bespec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bespec.dev/pkg/bespec/internal/adapter"
	"bespec.dev/pkg/bespec/internal/controller"
	"bespec.dev/pkg/bespec/internal/domain"
	m "bespec.dev/pkg/bespec/internal/model"
)

// DefaultReportsDir is where runs are stored when no reports directory is
// configured.
const DefaultReportsDir = ".bespec-reports"

// Configuration keys Main honors, overridable via BESPEC_* environment
// variables or a bespec.yaml next to the suite binary. Flag values win.
const (
	envPrefix = "BESPEC"

	shuffleKey = "shuffle"
	seedKey    = "seed"
	filterKey  = "filter"
	shardKey   = "shard"
	reportsKey = "reports"
	junitKey   = "junit"
	verboseKey = "verbose"
	logFileKey = "log.filename"
)

// defaultRegistry collects the nodes declared via Register.
var defaultRegistry = domain.NewRegistry()

// Register adds top-level nodes to the default registry. Spec files typically
// call it from a package-level var initializer:
//
//	var _ = bespec.Register(
//		bespec.Describe("calculator", ...),
//	)
func Register(nodes ...Node) bool {
	defaultRegistry.Add(nodes...)

	return true
}

// RunConfig holds configuration for a run.
type RunConfig struct {
	seed       int64
	seedSet    bool
	shuffle    bool
	filter     string
	shardIndex int
	shardTotal int
	reportsDir string
	output     io.Writer
	registry   *domain.Registry
}

// Option is a functional option for Run.
type Option func(*RunConfig)

// WithShuffle randomizes sibling order before running. Without WithSeed the
// seed comes from the clock and is recorded in the report for replay.
func WithShuffle() Option {
	return func(c *RunConfig) {
		c.shuffle = true
	}
}

// WithSeed shuffles with a fixed seed, reproducing a previous order.
func WithSeed(seed int64) Option {
	return func(c *RunConfig) {
		c.shuffle = true
		c.seed = seed
		c.seedSet = true
	}
}

// WithFilter keeps only examples whose own description, or an enclosing
// group's description, contains pattern.
func WithFilter(pattern string) Option {
	return func(c *RunConfig) {
		c.filter = pattern
	}
}

// WithShard runs only the top-level nodes assigned to shard index of total.
func WithShard(index, total int) Option {
	return func(c *RunConfig) {
		c.shardIndex = index
		c.shardTotal = total
	}
}

// WithReportsDir persists the run report under dir.
func WithReportsDir(dir string) Option {
	return func(c *RunConfig) {
		c.reportsDir = dir
	}
}

// WithOutput directs run output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(c *RunConfig) {
		c.output = w
	}
}

// WithRegistry runs the given registry instead of the default one.
func WithRegistry(registry *Registry) Option {
	return func(c *RunConfig) {
		c.registry = registry
	}
}

// Run executes the registered specifications and returns the report. The
// forest is focus-filtered, description-filtered, sharded, and shuffled, in
// that order, before the executor walks it. An empty forest yields an empty
// report, not an error.
func Run(options ...Option) (RunReport, error) {
	config := newRunConfig(options)

	info := m.RunInfo{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Filter:    config.filter,
		Version:   Version(),
	}
	if config.shardTotal > 0 {
		info.Shard = fmt.Sprintf("%d/%d", config.shardIndex, config.shardTotal)
	}

	forest := domain.FilterFocused(pruneRootHooks(config.registry.Nodes()))

	if config.filter != "" {
		forest = domain.FilterByDescription(config.filter, forest)
	}

	if config.shardTotal > 0 {
		forest = domain.ShardForest(config.shardIndex, config.shardTotal, forest)
	}

	if config.shuffle {
		info.Shuffled = true
		info.Seed = config.seed
		forest = domain.Shuffle(config.seed, forest)
	}

	slog.Info("run starting",
		"run", info.ID,
		"shuffled", info.Shuffled,
		"filter", info.Filter,
		"shard", info.Shard)

	ctx := context.Background()
	ui := controller.NewSimpleUI(config.output)

	ui.RunStarted(ctx, info)

	executor := domain.NewExecutor(&uiObserver{ctx: ctx, ui: ui})

	started := time.Now()
	results := executor.RunForest(forest)

	report := m.RunReport{
		Info:    info,
		Summary: domain.Summarize(results, time.Since(started)),
		Results: results,
	}

	ui.RunFinished(ctx, report)

	slog.Info("run finished",
		"run", info.ID,
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
		"skipped", report.Summary.Skipped)

	if config.reportsDir != "" {
		store := adapter.NewReportStore()
		if _, err := store.Save(config.reportsDir, report); err != nil {
			return report, fmt.Errorf("saving report: %w", err)
		}
	}

	return report, nil
}

// RunWithSeed shuffles with the given seed and runs. It is shorthand for
// Run with WithSeed prepended.
func RunWithSeed(seed int64, options ...Option) (RunReport, error) {
	return Run(append([]Option{WithSeed(seed)}, options...)...)
}

// FilterByDescription narrows a forest to examples whose own or ancestor
// description contains pattern. An empty pattern returns the forest unchanged.
func FilterByDescription(pattern string, forest []Node) []Node {
	return domain.FilterByDescription(pattern, forest)
}

// pruneRootHooks drops hook declarations registered outside any group. A hook
// needs an enclosing Describe to attach to; at the top level it can never run,
// so it is logged and ignored rather than failing the run.
func pruneRootHooks(forest []m.Node) []m.Node {
	kept := make([]m.Node, 0, len(forest))

	for _, node := range forest {
		if hook, ok := node.(*m.HookNode); ok {
			slog.Warn("ignoring top-level hook with no enclosing group", "phase", hook.Phase)
			continue
		}

		kept = append(kept, node)
	}

	return kept
}

func newRunConfig(options []Option) RunConfig {
	config := RunConfig{
		output:   os.Stdout,
		registry: defaultRegistry,
	}

	for _, option := range options {
		option(&config)
	}

	if config.shuffle && !config.seedSet {
		config.seed = time.Now().UnixNano()
	}

	return config
}

// uiObserver adapts the executor's progress callbacks to the UI.
type uiObserver struct {
	ctx context.Context
	ui  controller.UI
}

func (o *uiObserver) ExampleStarted(path []string) {
	o.ui.ExampleStarted(o.ctx, path)
}

func (o *uiObserver) ExampleFinished(path []string, result m.ExampleResult) {
	o.ui.ExampleFinished(o.ctx, path, result)
}

// TestingT is the subset of testing.T that RunSpecs needs.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// RunSpecs runs the registered specifications inside a go test and reports
// failures through t. It returns true when the run passed.
func RunSpecs(t TestingT, description string, options ...Option) bool {
	t.Helper()

	report, err := Run(options...)
	if err != nil {
		t.Errorf("%s: %v", description, err)
		return false
	}

	if !report.Summary.Successful() {
		t.Errorf("%s: %d of %d examples failed",
			description, report.Summary.Failed, report.Summary.Total)
		return false
	}

	return true
}

// Main runs the registered specifications as a standalone suite binary. It
// parses command-line flags, honors BESPEC_* environment variables and an
// optional bespec.yaml next to the binary, and returns the process exit
// code: 0 when the run passed, 1 when examples failed, 2 for usage or I/O
// errors.
//
//	func main() {
//		os.Exit(bespec.Main())
//	}
func Main(options ...Option) int {
	flags := pflag.NewFlagSet("bespec", pflag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	flags.Bool(shuffleKey, false, "shuffle sibling order with a clock seed")
	flags.Int64(seedKey, 0, "shuffle seed for replaying a previous order (implies --shuffle)")
	flags.String(filterKey, "", "run only examples whose descriptions contain this text")
	flags.String(shardKey, "", "run one shard of the top-level nodes, format INDEX/TOTAL (e.g., 0/3)")
	flags.String(reportsKey, DefaultReportsDir, "directory for run reports")
	flags.String(junitKey, "", "write a JUnit XML report to this file")
	flags.BoolP(verboseKey, "v", false, "debug logging")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}

		return 2
	}

	v, err := mainConfig(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	level := slog.LevelInfo
	if v.GetBool(verboseKey) {
		level = slog.LevelDebug
	}

	adapter.ConfigureLogger(adapter.LogConfig{
		Filename: v.GetString(logFileKey),
		Level:    level,
	})

	runOptions := append([]Option{}, options...)

	if seed := v.GetInt64(seedKey); flags.Changed(seedKey) || seed != 0 {
		runOptions = append(runOptions, WithSeed(seed))
	} else if v.GetBool(shuffleKey) {
		runOptions = append(runOptions, WithShuffle())
	}

	if pattern := v.GetString(filterKey); pattern != "" {
		runOptions = append(runOptions, WithFilter(pattern))
	}

	if shard := v.GetString(shardKey); shard != "" {
		index, total := parseShard(shard)
		runOptions = append(runOptions, WithShard(index, total))
	}

	runOptions = append(runOptions, WithReportsDir(v.GetString(reportsKey)))

	report, err := Run(runOptions...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if junitPath := v.GetString(junitKey); junitPath != "" {
		if err := writeJUnitFile(junitPath, report); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	if !report.Summary.Successful() {
		return 1
	}

	return 0
}

// mainConfig builds the viper instance backing Main: defaults, then env, an
// optional config file, and flags on top.
func mainConfig(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(reportsKey, DefaultReportsDir)
	v.SetDefault(logFileKey, "")

	v.SetConfigName("bespec")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	for _, key := range []string{shuffleKey, seedKey, filterKey, shardKey, reportsKey, junitKey, verboseKey} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return nil, fmt.Errorf("binding flag %s: %w", key, err)
		}
	}

	return v, nil
}

// parseShard parses an INDEX/TOTAL shard spec. Anything invalid falls back to
// the full forest as a single shard.
func parseShard(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}

func writeJUnitFile(path string, report RunReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating junit report: %w", err)
	}

	if err := adapter.WriteJUnit(file, report); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// Version reports the module version from build info, or "unknown" for
// builds without module metadata.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "unknown"
	}

	return info.Main.Version
}
