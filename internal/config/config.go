package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/coco/internal/app"
	"github.com/atomicstack/coco/internal/filter"
	"github.com/atomicstack/coco/internal/format/table"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// ErrUnknownFilter is returned for filter names that match no mode.
var ErrUnknownFilter = errors.New("unknown filter")

// UsageError is returned when help was requested. Usage holds the flag
// summary to print.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string { return "help requested" }

func (e *UsageError) Unwrap() error { return pflag.ErrHelp }

const (
	envQuery     = "COCO_QUERY"
	envPrompt    = "COCO_PROMPT"
	envMaxBuffer = "COCO_MAX_BUFFER"
	envScoreMin  = "COCO_SCORE_MIN"
	envFilter    = "COCO_FILTER"
	envFilters   = "COCO_FILTERS"
	envMulti     = "COCO_MULTI"
	envBackend   = "COCO_BACKEND"
	envAsync     = "COCO_ASYNC"
	envHeight    = "COCO_HEIGHT"
	envNoColor   = "NO_COLOR"
	envConfig    = "COCO_CONFIG"
	envTrace     = "COCO_TRACE"
	envLogFile   = "COCO_LOG_FILE"
)

const (
	defaultPrompt    = "QUERY> "
	defaultMaxBuffer = 4096
	defaultScoreMin  = 0.01
	defaultFilter    = "SmartCase"
	defaultFilters   = "CaseSensitive,SmartCase,Regex"
)

// fileConfig mirrors the flags in an optional YAML file. Unset keys keep the
// built-in defaults.
type fileConfig struct {
	Query     *string  `yaml:"query"`
	Prompt    *string  `yaml:"prompt"`
	MaxBuffer *int     `yaml:"max-buffer"`
	ScoreMin  *float64 `yaml:"score-min"`
	Filter    *string  `yaml:"filter"`
	Filters   []string `yaml:"filters"`
	Multi     *bool    `yaml:"multi"`
	Backend   *string  `yaml:"backend"`
	Async     *bool    `yaml:"async"`
	Height    *int     `yaml:"height"`
	NoColor   *bool    `yaml:"no-color"`
	Trace     *bool    `yaml:"trace"`
	LogFile   *string  `yaml:"log-file"`
}

var keyBindings = [][]string{
	{"enter", "print the selection and exit"},
	{"esc, ctrl+c", "exit without printing"},
	{"up, ctrl+p", "move the cursor up"},
	{"down, ctrl+n", "move the cursor down"},
	{"tab", "toggle the line under the cursor"},
	{"backspace", "delete the last query character"},
	{"ctrl+r", "switch to the next filter mode"},
}

func usage(fs *pflag.FlagSet) string {
	var b strings.Builder
	b.WriteString("Usage: coco [flags] [file...]\n\nFlags:\n")
	b.WriteString(fs.FlagUsages())
	b.WriteString("\nKeys:\n")
	for _, line := range table.Format(keyBindings, nil) {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Load parses configuration from CLI arguments, environment variables and the
// optional configuration file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flags win over
// environment variables, which win over the configuration file.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath := envOrDefault(env, envConfig, "")
	if path, ok := configPathFromArgs(args); ok {
		configPath = path
	}
	file, err := loadFile(configPath)
	if err != nil {
		return Config{}, err
	}

	fs := pflag.NewFlagSet("coco", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	fs.SortFlags = false

	query := fs.String("query", envOrDefault(env, envQuery, orString(file.Query, "")), "initial value for query")
	prompt := fs.String("prompt", envOrDefault(env, envPrompt, orString(file.Prompt, defaultPrompt)), "specify the prompt string")
	maxBuffer := fs.IntP("max-buffer", "b", envOrInt(env, envMaxBuffer, orInt(file.MaxBuffer, defaultMaxBuffer)), "maximum number of lines to read (0 reads everything)")
	scoreMin := fs.Float64P("score-min", "s", envOrFloat(env, envScoreMin, orFloat(file.ScoreMin, defaultScoreMin)), "threshold of score")
	filterName := fs.StringP("filter", "f", envOrDefault(env, envFilter, orString(file.Filter, defaultFilter)), "initial filter mode")
	filterList := fs.String("filters", envOrDefault(env, envFilters, orList(file.Filters, defaultFilters)), "comma separated filter modes cycled with ctrl+r")
	multi := fs.BoolP("multi", "m", envOrBool(env, envMulti, orBool(file.Multi, true)), "allow selecting several lines with tab")
	backend := fs.String("backend", envOrDefault(env, envBackend, orString(file.Backend, app.BackendTea)), "terminal backend: tea or tcell")
	async := fs.Bool("async", envOrBool(env, envAsync, orBool(file.Async, false)), "filter in the background while typing")
	height := fs.Int("height", envOrInt(env, envHeight, orInt(file.Height, 0)), "maximum rows to use (0 uses terminal height)")
	noColor := fs.Bool("no-color", envPresent(env, envNoColor, orBool(file.NoColor, false)), "disable colours")
	fs.StringP("config", "c", configPath, "path to a YAML configuration file")
	trace := fs.Bool("trace", envOrBool(env, envTrace, orBool(file.Trace, false)), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, orString(file.LogFile, "")), "path to the log file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Config{}, &UsageError{Usage: usage(fs)}
		}
		return Config{}, err
	}

	if *maxBuffer < 0 {
		return Config{}, fmt.Errorf("max-buffer must be >= 0 (got %d)", *maxBuffer)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *backend != app.BackendTea && *backend != app.BackendTcell {
		return Config{}, fmt.Errorf("backend must be %q or %q (got %q)", app.BackendTea, app.BackendTcell, *backend)
	}
	mode, err := parseFilter(*filterName)
	if err != nil {
		return Config{}, err
	}
	modes, err := parseFilters(*filterList)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Paths:     append([]string(nil), fs.Args()...),
			Query:     *query,
			Prompt:    *prompt,
			MaxBuffer: *maxBuffer,
			ScoreMin:  *scoreMin,
			Filter:    mode,
			Filters:   modes,
			Multi:     *multi,
			Backend:   *backend,
			Async:     *async,
			Height:    *height,
			NoColor:   *noColor,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"query":     *query,
			"prompt":    *prompt,
			"maxBuffer": strconv.Itoa(*maxBuffer),
			"scoreMin":  strconv.FormatFloat(*scoreMin, 'g', -1, 64),
			"filter":    mode.String(),
			"filters":   *filterList,
			"multi":     strconv.FormatBool(*multi),
			"backend":   *backend,
			"async":     strconv.FormatBool(*async),
			"height":    strconv.Itoa(*height),
			"noColor":   strconv.FormatBool(*noColor),
			"config":    configPath,
			"trace":     strconv.FormatBool(*trace),
			"logFile":   *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configPathFromArgs finds --config/-c ahead of the full parse so the file can
// seed flag defaults.
func configPathFromArgs(args []string) (string, bool) {
	path, found := "", false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				path, found = args[i+1], true
				i++
			}
		case strings.HasPrefix(arg, "--config="):
			path, found = strings.TrimPrefix(arg, "--config="), true
		case strings.HasPrefix(arg, "-c") && !strings.HasPrefix(arg, "--"):
			path, found = strings.TrimPrefix(strings.TrimPrefix(arg, "-c"), "="), true
		}
	}
	return path, found
}

func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if strings.TrimSpace(path) == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

func parseFilter(name string) (filter.Mode, error) {
	mode, err := filter.ParseMode(name)
	if err == nil {
		return mode, nil
	}
	trimmed := strings.TrimSpace(name)
	ranks := fuzzy.RankFindNormalizedFold(trimmed, filter.Names())
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return 0, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownFilter, trimmed, ranks[0].Target)
	}
	return 0, fmt.Errorf("%w %q (valid: %s)", ErrUnknownFilter, trimmed, strings.Join(filter.Names(), ", "))
}

func parseFilters(list string) ([]filter.Mode, error) {
	var modes []filter.Mode
	seen := make(map[filter.Mode]struct{})
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		mode, err := parseFilter(part)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[mode]; ok {
			continue
		}
		seen[mode] = struct{}{}
		modes = append(modes, mode)
	}
	if len(modes) == 0 {
		return nil, fmt.Errorf("filters must name at least one mode")
	}
	return modes, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(env map[string]string, key string, fallback float64) float64 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// envPresent follows the NO_COLOR convention: any non-empty value enables it.
func envPresent(env map[string]string, key string, fallback bool) bool {
	if v, ok := env[key]; ok && v != "" {
		return true
	}
	return fallback
}

func orString(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func orInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func orFloat(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func orBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func orList(v []string, fallback string) string {
	if len(v) == 0 {
		return fallback
	}
	return strings.Join(v, ",")
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		var usage *UsageError
		if errors.As(err, &usage) {
			fmt.Fprint(os.Stderr, usage.Usage)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks cross-field constraints. The initial filter joins the
// rotation when it is missing from it.
func Validate(cfg *Config) error {
	if len(cfg.App.Filters) == 0 {
		return fmt.Errorf("filters must name at least one mode")
	}
	for _, mode := range cfg.App.Filters {
		if mode == cfg.App.Filter {
			return nil
		}
	}
	cfg.App.Filters = append([]filter.Mode{cfg.App.Filter}, cfg.App.Filters...)
	return nil
}
