package config

// Default values for configuration settings.
const (
	DefaultDebounceMS            = 400
	DefaultPosterCooldownSeconds = 2
	DefaultPrintSize             = "12x18"
	DefaultPaperCostPerFoot      = 47.95 / 60.0
	DefaultWastePct              = 0.10
	DefaultInkCostPerML          = 32.0 / 70.0
	DefaultInkMLPerSqFt          = 70.0 / 66.0
	DefaultPaperName             = "Red River Polar Matte 60"
	DefaultPaperRollStartFeet    = 60.0
	DefaultPaperRollResetAt      = 15.0
	DefaultLogFormat             = "console"
	DefaultLogLevel              = "info"
)

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: "~/.cache/studiohub",
			LogDir:   "~/.local/share/studiohub/logs",
		},
		Indexing: Indexing{
			ScanOnStart:           true,
			DebounceMS:            DefaultDebounceMS,
			PosterCooldownSeconds: DefaultPosterCooldownSeconds,
		},
		Printing: Printing{
			IsPrimaryPrinter:  true,
			DefaultSize:       DefaultPrintSize,
			AllowPairing12x18: true,
			AutoCommitPaper:   true,
			AutoLogPrints:     true,
		},
		PrintCost: PrintCost{
			PaperCostPerFoot: DefaultPaperCostPerFoot,
			WastePct:         DefaultWastePct,
			InkCostPerML:     DefaultInkCostPerML,
			InkMLPerSqFt:     DefaultInkMLPerSqFt,
		},
		Consumables: Consumables{
			PaperName:          DefaultPaperName,
			PaperRollStartFeet: DefaultPaperRollStartFeet,
			PaperRollResetAt:   DefaultPaperRollResetAt,
		},
		Logging: Logging{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
	}
}
