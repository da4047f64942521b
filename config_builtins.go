package flexlog

import "fmt"

// registerBuiltinKinds wires every kind flexlog ships out of the box into d.
// Errors are not expected here (d is always fresh and unfrozen); any error
// panics, so a mistake in this file fails loudly at package init instead of
// silently dropping a kind.
func registerBuiltinKinds(d *Deserializers) {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(d.RegisterAppender("console", buildConsoleAppender))
	must(d.RegisterAppender("file", buildFileAppender))
	must(d.RegisterAppender("rolling-file", buildRollingFileAppender))

	must(d.RegisterEncoder("pattern", buildPatternEncoder))
	must(d.RegisterEncoder("json", buildJSONEncoder))

	must(d.RegisterFilter("threshold", buildThresholdFilter))

	must(d.RegisterTrigger("size", buildSizeTrigger))
	must(d.RegisterTrigger("onstartup", buildOnStartupTrigger))
	must(d.RegisterTrigger("time", buildTimeTrigger))

	must(d.RegisterRoller("delete", buildDeleteRoller))
	must(d.RegisterRoller("fixed-window", buildFixedWindowRoller))
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func buildConsoleAppender(raw RawAppender, _ *buildContext) (Driver, error) {
	var target ConsoleTarget
	switch raw.Target {
	case "", "stdout":
		target = ConsoleStdout
	case "stderr":
		target = ConsoleStderr
	default:
		return nil, fmt.Errorf("flexlog: console appender: unknown target %q", raw.Target)
	}
	return NewConsoleDriver(target, boolOr(raw.TTYOnly, false)), nil
}

func buildFileAppender(raw RawAppender, ctx *buildContext) (Driver, error) {
	if raw.Path == "" {
		return nil, fmt.Errorf("flexlog: file appender: path is required")
	}
	path, err := interpolatePath(raw.Path, ctx.now)
	if err != nil {
		return nil, fmt.Errorf("flexlog: file appender: %w", err)
	}
	return NewFileDriver(path, boolOr(raw.Append, true)), nil
}

func buildRollingFileAppender(raw RawAppender, ctx *buildContext) (Driver, error) {
	if raw.Path == "" {
		return nil, fmt.Errorf("flexlog: rolling-file appender: path is required")
	}
	if raw.Trigger == nil {
		return nil, fmt.Errorf("flexlog: rolling-file appender: trigger is required")
	}
	if raw.Roller == nil {
		return nil, fmt.Errorf("flexlog: rolling-file appender: roller is required")
	}
	path, err := interpolatePath(raw.Path, ctx.now)
	if err != nil {
		return nil, fmt.Errorf("flexlog: rolling-file appender: %w", err)
	}

	subCtx := *ctx
	subCtx.path = path
	subCtx.background = boolOr(raw.Background, true)

	trigger, err := subCtx.registry.buildTrigger(*raw.Trigger, &subCtx)
	if err != nil {
		return nil, err
	}
	roller, err := subCtx.registry.buildRoller(*raw.Roller, &subCtx)
	if err != nil {
		return nil, err
	}
	return NewRollingFileDriver(path, &Policy{Trigger: trigger, Roller: roller})
}

// buildPatternEncoder compiles raw.Pattern. An omitted encoder block is
// defaulted to DefaultPattern by the caller before this factory ever runs
// (config_build.go); an explicitly-configured empty pattern reaching here is
// a build error, not something to silently repair.
func buildPatternEncoder(raw RawEncoder, ctx *buildContext) (Encoder, error) {
	if raw.Pattern == "" {
		return nil, fmt.Errorf("flexlog: pattern encoder: pattern must not be empty")
	}
	return CompilePattern(raw.Pattern, ctx.color)
}

func buildJSONEncoder(_ RawEncoder, _ *buildContext) (Encoder, error) {
	return JSONEncoder{}, nil
}

func buildThresholdFilter(raw RawFilter) (Filter, error) {
	lvl, ok := ParseLevelFilter(raw.Level)
	if !ok {
		return nil, fmt.Errorf("flexlog: threshold filter: unrecognized level %q", raw.Level)
	}
	return ThresholdFilter{Level: lvl}, nil
}

func buildSizeTrigger(raw RawTrigger, _ *buildContext) (Trigger, error) {
	limit, err := ParseSize(raw.Limit)
	if err != nil {
		return nil, fmt.Errorf("flexlog: size trigger: %w", err)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("flexlog: size trigger: limit must be greater than zero")
	}
	return &SizeTrigger{Limit: limit}, nil
}

func buildOnStartupTrigger(raw RawTrigger, _ *buildContext) (Trigger, error) {
	var minSize int64
	if raw.MinSize != "" {
		var err error
		minSize, err = ParseSize(raw.MinSize)
		if err != nil {
			return nil, fmt.Errorf("flexlog: onstartup trigger: %w", err)
		}
	}
	return NewOnStartupTrigger(minSize), nil
}

func buildTimeTrigger(raw RawTrigger, ctx *buildContext) (Trigger, error) {
	amount, unit, err := parseDurationParts(orDefault(raw.Interval, "1 second"))
	if err != nil {
		return nil, fmt.Errorf("flexlog: time trigger: %w", err)
	}
	return NewTimeTrigger(ctx.path, amount, unit, boolOr(raw.Modulate, false), intOr(raw.MaxRandomDelay, 0), ctx.now)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func buildDeleteRoller(_ RawRoller, _ *buildContext) (Roller, error) {
	return DeleteRoller{}, nil
}

func buildFixedWindowRoller(raw RawRoller, ctx *buildContext) (Roller, error) {
	if raw.Pattern == "" {
		return nil, fmt.Errorf("flexlog: fixed-window roller: pattern is required")
	}
	return NewFixedWindowRoller(raw.Pattern, intOr(raw.Base, 1), intOr(raw.Count, 1), ctx.background, ctx.errHandler)
}

// buildTrigger and buildRoller look up and invoke the registered factory,
// shared by the rolling-file appender builder above.
func (d *Deserializers) buildTrigger(raw RawTrigger, ctx *buildContext) (Trigger, error) {
	d.mu.Lock()
	f, ok := d.triggers[raw.Kind]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("flexlog: unknown trigger kind %q", raw.Kind)
	}
	return f(raw, ctx)
}

func (d *Deserializers) buildRoller(raw RawRoller, ctx *buildContext) (Roller, error) {
	d.mu.Lock()
	f, ok := d.rollers[raw.Kind]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("flexlog: unknown roller kind %q", raw.Kind)
	}
	return f(raw, ctx)
}
