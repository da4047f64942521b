package flexlog

import (
	"fmt"
	"sync"
	"time"
)

// buildContext carries the ambient values a factory needs but that don't
// belong in the document itself.
type buildContext struct {
	now        time.Time
	errHandler func(error)
	path       string // the owning appender's active file path, for triggers/rollers
	background bool
	registry   *Deserializers
	color      colorDecision // this appender's §9 once-per-build color decision
}

// AppenderFactory builds a Driver from a RawAppender.
type AppenderFactory func(raw RawAppender, ctx *buildContext) (Driver, error)

// EncoderFactory builds an Encoder from a RawEncoder.
type EncoderFactory func(raw RawEncoder, ctx *buildContext) (Encoder, error)

// FilterFactory builds a Filter from a RawFilter.
type FilterFactory func(raw RawFilter) (Filter, error)

// TriggerFactory builds a Trigger from a RawTrigger.
type TriggerFactory func(raw RawTrigger, ctx *buildContext) (Trigger, error)

// RollerFactory builds a Roller from a RawRoller.
type RollerFactory func(raw RawRoller, ctx *buildContext) (Roller, error)

// Deserializers is the pluggable registry Build consults to turn a RawConfig
// into a Graph. It is frozen the first time Build runs: Register* calls
// after that return an error instead of silently racing a concurrent build.
//
// The package-level DefaultDeserializers comes pre-populated with flexlog's
// built-in kinds (console/file/rolling-file appenders, pattern/json
// encoders, threshold filter, size/time/onstartup triggers, delete/
// fixed-window rollers). Embedding applications extend it with their own
// kinds before the first Build call.
type Deserializers struct {
	mu sync.Mutex

	appenders map[string]AppenderFactory
	encoders  map[string]EncoderFactory
	filters   map[string]FilterFactory
	triggers  map[string]TriggerFactory
	rollers   map[string]RollerFactory

	frozen bool
}

// NewDeserializers returns an empty registry. Most callers want
// DefaultDeserializers instead.
func NewDeserializers() *Deserializers {
	return &Deserializers{
		appenders: map[string]AppenderFactory{},
		encoders:  map[string]EncoderFactory{},
		filters:   map[string]FilterFactory{},
		triggers:  map[string]TriggerFactory{},
		rollers:   map[string]RollerFactory{},
	}
}

func (d *Deserializers) freeze() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frozen = true
}

func (d *Deserializers) checkWritable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frozen {
		return fmt.Errorf("flexlog: deserializer registry is frozen after the first Build")
	}
	return nil
}

// RegisterAppender adds or replaces the factory for kind.
func (d *Deserializers) RegisterAppender(kind string, f AppenderFactory) error {
	if err := d.checkWritable(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.appenders[kind] = f
	return nil
}

// RegisterEncoder adds or replaces the factory for kind.
func (d *Deserializers) RegisterEncoder(kind string, f EncoderFactory) error {
	if err := d.checkWritable(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.encoders[kind] = f
	return nil
}

// RegisterFilter adds or replaces the factory for kind.
func (d *Deserializers) RegisterFilter(kind string, f FilterFactory) error {
	if err := d.checkWritable(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filters[kind] = f
	return nil
}

// RegisterTrigger adds or replaces the factory for kind.
func (d *Deserializers) RegisterTrigger(kind string, f TriggerFactory) error {
	if err := d.checkWritable(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.triggers[kind] = f
	return nil
}

// RegisterRoller adds or replaces the factory for kind.
func (d *Deserializers) RegisterRoller(kind string, f RollerFactory) error {
	if err := d.checkWritable(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollers[kind] = f
	return nil
}

// DefaultDeserializers is the registry Load and LoadFile use when none is
// supplied explicitly.
var DefaultDeserializers = newDefaultDeserializers()

func newDefaultDeserializers() *Deserializers {
	d := NewDeserializers()
	registerBuiltinKinds(d)
	return d
}
