package contract

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/leanlens/leanlens/schema"
)

// Default values for configuration. The detection thresholds and gain
// percentage are calibration parameters, not physical constants; they
// ship as defaults and are expected to be tuned per plant.
const (
	DefaultMicroStopThresholdMin = 5.0  // stoppages under this are micro-stops
	DefaultMicroStopCount        = 30   // micro-stops per machine before a loss fires
	DefaultDowntimeHours         = 8.0  // cumulative stoppage hours per machine
	DefaultDefectCount           = 30   // defective pieces per machine
	DefaultOverControlCount      = 15   // excess inspections per machine
	DefaultNightShiftHours       = 5.0  // plant-wide night shift stoppage hours

	DefaultMachineHourlyRate = 150.0 // EUR per machine hour
	DefaultLaborHourlyRate   = 50.0  // EUR per labor hour
	DefaultGainPercent       = 0.70  // share of a loss's cost a fix recovers
	DefaultQuickWinGainEUR   = 1000.0

	DefaultModelTimeout = 30 * time.Second
	DefaultPrecision    = 1
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the validated runtime configuration for a run.
// It is threaded explicitly through every stage call; the core never
// reads ambient state.
type Config struct {
	DataDir string

	// Detection thresholds.
	MicroStopThresholdMin float64
	MicroStopCount        int
	DowntimeHours         float64
	DefectCount           int
	OverControlCount      int
	NightShiftHours       float64

	// Cost model.
	MachineHourlyRate float64
	LaborHourlyRate   float64

	// GainPercents maps each waste category to the share of its cost a
	// recommendation is expected to recover.
	GainPercents map[schema.WasteCategory]float64

	QuickWinGainEUR float64

	// Model backend. Empty APIKey means no backend is configured and
	// every stage runs the heuristic strategy.
	ModelAPIKey  string
	ModelName    string
	ModelTimeout time.Duration

	// Report store.
	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// Output.
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Detail     bool
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	// Clock supplies the report timestamp. Injectable so heuristic runs
	// are byte-identical under test. Nil means time.Now.
	Clock func() time.Time
}

// ConfigRawInput holds the raw inputs from all sources (flags, env,
// config file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataDirStr string

	MicroStopThreshold float64 `mapstructure:"micro-stop-threshold"`
	MicroStopCount     int     `mapstructure:"micro-stop-count"`
	DowntimeHours      float64 `mapstructure:"downtime-hours"`
	DefectCount        int     `mapstructure:"defect-count"`
	OverControlCount   int     `mapstructure:"over-control-count"`
	NightShiftHours    float64 `mapstructure:"night-shift-hours"`

	MachineRate  float64 `mapstructure:"machine-rate"`
	LaborRate    float64 `mapstructure:"labor-rate"`
	GainPercent  float64 `mapstructure:"gain-percent"`
	QuickWinGain float64 `mapstructure:"quick-win-gain"`

	ModelAPIKey  string `mapstructure:"model-api-key"`
	ModelName    string `mapstructure:"model-name"`
	ModelTimeout string `mapstructure:"model-timeout"`

	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Detail     bool   `mapstructure:"detail"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	// --- Per-category gain overrides from config file ---
	GainPercents map[string]float64 `mapstructure:"gain-percents"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.GainPercents != nil {
		clone.GainPercents = make(map[schema.WasteCategory]float64, len(c.GainPercents))
		maps.Copy(clone.GainPercents, c.GainPercents)
	}
	return &clone
}

// Now returns the configured clock's current time.
func (c *Config) Now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// GainPercent returns the configured gain share for a category,
// falling back to the global default when no override exists.
func (c *Config) GainPercent(cat schema.WasteCategory) float64 {
	if pct, ok := c.GainPercents[cat]; ok {
		return pct
	}
	return DefaultGainPercent
}

// ModelConfigured reports whether a model backend is available for
// strategy selection.
func (c *Config) ModelConfigured() bool {
	return c.ModelAPIKey != ""
}

// ProcessAndValidate performs all parsing and validation on the raw
// inputs and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateThresholds(cfg, input); err != nil {
		return err
	}
	if err := validateCostModel(cfg, input); err != nil {
		return err
	}
	if err := validateModel(cfg, input); err != nil {
		return err
	}
	if err := validateStore(cfg, input); err != nil {
		return err
	}
	if err := validateOutput(cfg, input); err != nil {
		return err
	}
	cfg.DataDir = input.DataDirStr
	return nil
}

func validateThresholds(cfg *Config, input *ConfigRawInput) error {
	if input.MicroStopThreshold <= 0 {
		return fmt.Errorf("micro-stop-threshold must be positive, got %v", input.MicroStopThreshold)
	}
	if input.MicroStopCount <= 0 || input.DefectCount <= 0 || input.OverControlCount <= 0 {
		return errors.New("detection count thresholds must be positive")
	}
	if input.DowntimeHours <= 0 || input.NightShiftHours <= 0 {
		return errors.New("detection duration thresholds must be positive")
	}
	cfg.MicroStopThresholdMin = input.MicroStopThreshold
	cfg.MicroStopCount = input.MicroStopCount
	cfg.DowntimeHours = input.DowntimeHours
	cfg.DefectCount = input.DefectCount
	cfg.OverControlCount = input.OverControlCount
	cfg.NightShiftHours = input.NightShiftHours
	return nil
}

func validateCostModel(cfg *Config, input *ConfigRawInput) error {
	if input.MachineRate < 0 || input.LaborRate < 0 {
		return errors.New("hourly rates must not be negative")
	}
	if input.GainPercent < 0 || input.GainPercent > 1 {
		return fmt.Errorf("gain-percent must be within [0,1], got %v", input.GainPercent)
	}
	if input.QuickWinGain < 0 {
		return errors.New("quick-win-gain must not be negative")
	}
	cfg.MachineHourlyRate = input.MachineRate
	cfg.LaborHourlyRate = input.LaborRate
	cfg.QuickWinGainEUR = input.QuickWinGain

	cfg.GainPercents = make(map[schema.WasteCategory]float64, len(schema.AllWasteCategories))
	for _, cat := range schema.AllWasteCategories {
		cfg.GainPercents[cat] = input.GainPercent
	}
	for name, pct := range input.GainPercents {
		cat := schema.WasteCategory(name)
		if _, ok := schema.ValidWasteCategories[cat]; !ok {
			return fmt.Errorf("unknown waste category in gain-percents: %q", name)
		}
		if pct < 0 || pct > 1 {
			return fmt.Errorf("gain-percents[%s] must be within [0,1], got %v", name, pct)
		}
		cfg.GainPercents[cat] = pct
	}
	return nil
}

func validateModel(cfg *Config, input *ConfigRawInput) error {
	cfg.ModelAPIKey = input.ModelAPIKey
	cfg.ModelName = input.ModelName
	cfg.ModelTimeout = DefaultModelTimeout
	if input.ModelTimeout != "" {
		d, err := time.ParseDuration(input.ModelTimeout)
		if err != nil {
			return fmt.Errorf("invalid model-timeout %q: %w", input.ModelTimeout, err)
		}
		if d <= 0 {
			return errors.New("model-timeout must be positive")
		}
		cfg.ModelTimeout = d
	}
	return nil
}

func validateStore(cfg *Config, input *ConfigRawInput) error {
	backend := schema.DatabaseBackend(input.StoreBackend)
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend %q (sqlite, mysql, postgresql, none)", input.StoreBackend)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = input.StoreDBConnect
	return nil
}

func validateOutput(cfg *Config, input *ConfigRawInput) error {
	output := schema.OutputMode(input.Output)
	if output == "" {
		output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode %q (text, json, csv)", input.Output)
	}
	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be within [0,6], got %d", input.Precision)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile
	cfg.Precision = input.Precision
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	switch input.Color {
	case "on":
		cfg.UseColors = true
	case "off":
		cfg.UseColors = false
	case "", "auto":
		cfg.UseColors = output == schema.TextOut
	default:
		return fmt.Errorf("invalid color setting %q (auto, on, off)", input.Color)
	}
	return nil
}
