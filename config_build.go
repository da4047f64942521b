package flexlog

import (
	"fmt"
	"time"
)

// Build turns a validated RawConfig into an immutable Graph using registry
// to resolve every `kind` field. now is used to seed time triggers and is
// ordinarily time.Now(); tests pass a fixed instant. errHandler is the
// handler newly built appenders (background compression workers) report
// asynchronous failures to (§7).
func Build(doc RawConfig, registry *Deserializers, now time.Time, errHandler func(error)) (*Graph, error) {
	registry.freeze()

	appenders, err := buildAppenders(doc.Appenders, registry, now, errHandler)
	if err != nil {
		return nil, err
	}

	nodes := map[string]*Node{}

	rootLevel, ok := ParseLevelFilter(doc.Root.Level)
	if !ok {
		return nil, fmt.Errorf("flexlog: root: unrecognized level %q", doc.Root.Level)
	}
	if err := checkAppenderRefs("root", doc.Root.Appenders, appenders); err != nil {
		return nil, err
	}
	nodes[""] = &Node{
		Name:        "",
		Level:       &rootLevel,
		AppenderIDs: doc.Root.Appenders,
		Additive:    false,
	}

	for name, raw := range doc.Loggers {
		if name == "" {
			return nil, fmt.Errorf("flexlog: logger name must not be empty (use root for the top-level logger)")
		}
		if err := checkAppenderRefs(name, raw.Appenders, appenders); err != nil {
			return nil, err
		}
		var level *LevelFilter
		if raw.Level != "" {
			lvl, ok := ParseLevelFilter(raw.Level)
			if !ok {
				return nil, fmt.Errorf("flexlog: logger %q: unrecognized level %q", name, raw.Level)
			}
			level = &lvl
		}
		nodes[name] = &Node{
			Name:        name,
			Level:       level,
			AppenderIDs: raw.Appenders,
			Additive:    boolOr(raw.Additive, true),
		}
	}

	return &Graph{nodes: nodes, appenders: appenders}, nil
}

func checkAppenderRefs(owner string, ids []string, appenders map[string]*Appender) error {
	for _, id := range ids {
		if _, ok := appenders[id]; !ok {
			return fmt.Errorf("flexlog: %s: references unknown appender %q", owner, id)
		}
	}
	return nil
}

func buildAppenders(raw map[string]RawAppender, registry *Deserializers, now time.Time, errHandler func(error)) (map[string]*Appender, error) {
	out := make(map[string]*Appender, len(raw))
	for id, ra := range raw {
		a, err := buildOneAppender(id, ra, registry, now, errHandler)
		if err != nil {
			return nil, err
		}
		out[id] = a
	}
	return out, nil
}

func buildOneAppender(id string, ra RawAppender, registry *Deserializers, now time.Time, errHandler func(error)) (*Appender, error) {
	registry.mu.Lock()
	factory, ok := registry.appenders[ra.Kind]
	registry.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("flexlog: appender %q: unknown kind %q", id, ra.Kind)
	}

	ctx := &buildContext{now: now, errHandler: errHandler, registry: registry}
	driver, err := factory(ra, ctx)
	if err != nil {
		return nil, fmt.Errorf("flexlog: appender %q: %w", id, err)
	}
	if cd, ok := driver.(*ConsoleDriver); ok {
		ctx.color = decideColor(cd.IsTTY())
	}

	filters := make([]Filter, 0, len(ra.Filters))
	for _, rf := range ra.Filters {
		registry.mu.Lock()
		ff, ok := registry.filters[rf.Kind]
		registry.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("flexlog: appender %q: unknown filter kind %q", id, rf.Kind)
		}
		f, err := ff(rf)
		if err != nil {
			return nil, fmt.Errorf("flexlog: appender %q: %w", id, err)
		}
		filters = append(filters, f)
	}

	var rawEnc RawEncoder
	if ra.Encoder != nil {
		rawEnc = *ra.Encoder
	} else {
		rawEnc = RawEncoder{Kind: "pattern", Pattern: DefaultPattern}
	}
	registry.mu.Lock()
	ef, ok := registry.encoders[rawEnc.Kind]
	registry.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("flexlog: appender %q: unknown encoder kind %q", id, rawEnc.Kind)
	}
	enc, err := ef(rawEnc, ctx)
	if err != nil {
		return nil, fmt.Errorf("flexlog: appender %q: %w", id, err)
	}

	ra.Encoder = &rawEnc
	return &Appender{ID: id, Driver: driver, Filters: filters, Encoder: enc, raw: ra}, nil
}
