package flexlog

// RawConfig is the untyped document shape shared by the YAML, JSON and TOML
// loaders (§4.7). Field names use snake_case to match the declarative file
// formats; the same struct backs all three thanks to each format's tag.
type RawConfig struct {
	RefreshRate string                    `yaml:"refresh_rate,omitempty" json:"refresh_rate,omitempty" toml:"refresh_rate,omitempty"`
	Appenders   map[string]RawAppender    `yaml:"appenders" json:"appenders" toml:"appenders"`
	Loggers     map[string]RawLogger      `yaml:"loggers,omitempty" json:"loggers,omitempty" toml:"loggers,omitempty"`
	Root        RawRoot                   `yaml:"root" json:"root" toml:"root"`
}

// RawRoot configures the always-present, always non-additive root node.
type RawRoot struct {
	Level     string   `yaml:"level" json:"level" toml:"level"`
	Appenders []string `yaml:"appenders,omitempty" json:"appenders,omitempty" toml:"appenders,omitempty"`
}

// RawLogger configures one non-root node. Additive is a pointer so "absent"
// (default true) is distinguishable from an explicit false.
type RawLogger struct {
	Level     string   `yaml:"level,omitempty" json:"level,omitempty" toml:"level,omitempty"`
	Appenders []string `yaml:"appenders,omitempty" json:"appenders,omitempty" toml:"appenders,omitempty"`
	Additive  *bool    `yaml:"additive,omitempty" json:"additive,omitempty" toml:"additive,omitempty"`
}

// RawAppender is a flattened union of every appender kind's fields. Which
// fields are meaningful depends on Kind; the factory registered for that
// kind is responsible for reading only the ones it understands.
type RawAppender struct {
	Kind string `yaml:"kind" json:"kind" toml:"kind"`

	Filters []RawFilter  `yaml:"filters,omitempty" json:"filters,omitempty" toml:"filters,omitempty"`
	Encoder *RawEncoder  `yaml:"encoder,omitempty" json:"encoder,omitempty" toml:"encoder,omitempty"`

	// console
	Target  string `yaml:"target,omitempty" json:"target,omitempty" toml:"target,omitempty"`
	TTYOnly *bool  `yaml:"tty_only,omitempty" json:"tty_only,omitempty" toml:"tty_only,omitempty"`

	// file, rolling-file
	Path   string `yaml:"path,omitempty" json:"path,omitempty" toml:"path,omitempty"`
	Append *bool  `yaml:"append,omitempty" json:"append,omitempty" toml:"append,omitempty"`

	// rolling-file
	Trigger    *RawTrigger `yaml:"trigger,omitempty" json:"trigger,omitempty" toml:"trigger,omitempty"`
	Roller     *RawRoller  `yaml:"roller,omitempty" json:"roller,omitempty" toml:"roller,omitempty"`
	Background *bool       `yaml:"background,omitempty" json:"background,omitempty" toml:"background,omitempty"`
}

// RawEncoder selects and configures an appender's encoder.
type RawEncoder struct {
	Kind    string `yaml:"kind" json:"kind" toml:"kind"`
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty" toml:"pattern,omitempty"`
}

// RawFilter selects and configures one filter in an appender's chain.
type RawFilter struct {
	Kind  string `yaml:"kind" json:"kind" toml:"kind"`
	Level string `yaml:"level,omitempty" json:"level,omitempty" toml:"level,omitempty"`
}

// RawTrigger selects and configures a rolling-file appender's trigger.
type RawTrigger struct {
	Kind string `yaml:"kind" json:"kind" toml:"kind"`

	// size
	Limit string `yaml:"limit,omitempty" json:"limit,omitempty" toml:"limit,omitempty"`

	// onstartup
	MinSize string `yaml:"min_size,omitempty" json:"min_size,omitempty" toml:"min_size,omitempty"`

	// time
	Interval       string `yaml:"interval,omitempty" json:"interval,omitempty" toml:"interval,omitempty"`
	Modulate       *bool  `yaml:"modulate,omitempty" json:"modulate,omitempty" toml:"modulate,omitempty"`
	MaxRandomDelay *int   `yaml:"max_random_delay,omitempty" json:"max_random_delay,omitempty" toml:"max_random_delay,omitempty"`
}

// RawRoller selects and configures a rolling-file appender's roller.
type RawRoller struct {
	Kind    string `yaml:"kind" json:"kind" toml:"kind"`
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty" toml:"pattern,omitempty"`
	Base    *int   `yaml:"base,omitempty" json:"base,omitempty" toml:"base,omitempty"`
	Count   *int   `yaml:"count,omitempty" json:"count,omitempty" toml:"count,omitempty"`
}
