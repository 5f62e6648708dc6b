package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanlens/leanlens/schema"
)

// validInput returns a raw input mirroring the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		DataDirStr:         ".",
		MicroStopThreshold: DefaultMicroStopThresholdMin,
		MicroStopCount:     DefaultMicroStopCount,
		DowntimeHours:      DefaultDowntimeHours,
		DefectCount:        DefaultDefectCount,
		OverControlCount:   DefaultOverControlCount,
		NightShiftHours:    DefaultNightShiftHours,
		MachineRate:        DefaultMachineHourlyRate,
		LaborRate:          DefaultLaborHourlyRate,
		GainPercent:        DefaultGainPercent,
		QuickWinGain:       DefaultQuickWinGainEUR,
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, DefaultMicroStopCount, cfg.MicroStopCount)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultModelTimeout, cfg.ModelTimeout)
	assert.True(t, cfg.UseColors) // auto + text output
	assert.False(t, cfg.ModelConfigured())

	for _, cat := range schema.AllWasteCategories {
		assert.Equal(t, DefaultGainPercent, cfg.GainPercent(cat))
	}
}

func TestProcessAndValidate_ThresholdErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
		want   string
	}{
		{"zero micro-stop threshold", func(in *ConfigRawInput) { in.MicroStopThreshold = 0 }, "must be positive"},
		{"negative defect count", func(in *ConfigRawInput) { in.DefectCount = -1 }, "must be positive"},
		{"zero downtime hours", func(in *ConfigRawInput) { in.DowntimeHours = 0 }, "must be positive"},
		{"negative machine rate", func(in *ConfigRawInput) { in.MachineRate = -10 }, "must not be negative"},
		{"gain percent above one", func(in *ConfigRawInput) { in.GainPercent = 1.5 }, "within [0,1]"},
		{"negative quick win gain", func(in *ConfigRawInput) { in.QuickWinGain = -1 }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			err := ProcessAndValidate(&Config{}, in)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestProcessAndValidate_GainPercentOverrides(t *testing.T) {
	t.Run("valid override", func(t *testing.T) {
		in := validInput()
		in.GainPercents = map[string]float64{"Defects": 0.5}

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, in))
		assert.Equal(t, 0.5, cfg.GainPercent(schema.Defects))
		assert.Equal(t, DefaultGainPercent, cfg.GainPercent(schema.Waiting))
	})

	t.Run("unknown category", func(t *testing.T) {
		in := validInput()
		in.GainPercents = map[string]float64{"Shrinkage": 0.5}
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "unknown waste category")
	})

	t.Run("out of range", func(t *testing.T) {
		in := validInput()
		in.GainPercents = map[string]float64{"Defects": 1.1}
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "within [0,1]")
	})
}

func TestProcessAndValidate_ModelTimeout(t *testing.T) {
	t.Run("parses duration", func(t *testing.T) {
		in := validInput()
		in.ModelTimeout = "45s"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, in))
		assert.Equal(t, 45*time.Second, cfg.ModelTimeout)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		in := validInput()
		in.ModelTimeout = "soon"
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "invalid model-timeout")
	})

	t.Run("rejects non-positive", func(t *testing.T) {
		in := validInput()
		in.ModelTimeout = "-5s"
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "must be positive")
	})
}

func TestProcessAndValidate_StoreAndOutput(t *testing.T) {
	t.Run("invalid backend", func(t *testing.T) {
		in := validInput()
		in.StoreBackend = "oracle"
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "invalid store backend")
	})

	t.Run("invalid output mode", func(t *testing.T) {
		in := validInput()
		in.Output = "xml"
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "invalid output mode")
	})

	t.Run("precision bounds", func(t *testing.T) {
		in := validInput()
		in.Precision = 7
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "precision")
	})

	t.Run("color off", func(t *testing.T) {
		in := validInput()
		in.Color = "off"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, in))
		assert.False(t, cfg.UseColors)
	})

	t.Run("auto color disabled for json", func(t *testing.T) {
		in := validInput()
		in.Output = "json"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, in))
		assert.False(t, cfg.UseColors)
	})

	t.Run("invalid color", func(t *testing.T) {
		in := validInput()
		in.Color = "rainbow"
		assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "invalid color setting")
	})
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	clone := cfg.Clone()
	clone.GainPercents[schema.Defects] = 0.1
	clone.MicroStopCount = 99

	assert.Equal(t, DefaultGainPercent, cfg.GainPercent(schema.Defects))
	assert.Equal(t, DefaultMicroStopCount, cfg.MicroStopCount)
}

func TestConfigNow(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cfg := &Config{Clock: func() time.Time { return fixed }}
	assert.Equal(t, fixed, cfg.Now())

	// Nil clock falls through to the wall clock.
	cfg = &Config{}
	assert.WithinDuration(t, time.Now(), cfg.Now(), time.Minute)
}

func TestModelConfigured(t *testing.T) {
	assert.False(t, (&Config{}).ModelConfigured())
	assert.True(t, (&Config{ModelAPIKey: "key"}).ModelConfigured())
}
