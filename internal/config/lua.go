package config

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// LuaConfigParser executes Lua configuration files of the form
//
//	oled.config = {
//	    interface = "wlan0",
//	    cadence = 1,
//	    display = { sink = "terminal", rotation = 180 },
//	}
//
// and returns the recognised settings as a nested map for viper.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser whose print()
// output goes to stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// Parse runs content and extracts oled.config. Keys that are absent from
// the table are absent from the result, so defaults still apply.
func (p *LuaConfigParser) Parse(content []byte) (map[string]any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initOledGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    1_000_000,
			Memory: 8 * 1024 * 1024,
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	thread := p.runtime.MainThread()
	if _, err := rt.Call1(thread, rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	return p.extractConfig()
}

// initOledGlobal installs oled = { config = {} }.
func (p *LuaConfigParser) initOledGlobal() {
	oledTable := rt.NewTable()
	oledTable.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("oled"), rt.TableValue(oledTable))
}

func (p *LuaConfigParser) extractConfig() (map[string]any, error) {
	out := make(map[string]any)

	oledVal := p.runtime.GlobalEnv().Get(rt.StringValue("oled"))
	if oledVal == rt.NilValue {
		return out, nil
	}
	oledTable, ok := oledVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("oled is not a table")
	}

	configVal := oledTable.Get(rt.StringValue("config"))
	if configVal == rt.NilValue {
		return out, nil
	}
	table, ok := configVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("oled.config is not a table")
	}

	if val := getTableString(table, "interface"); val != nil {
		out["interface"] = *val
	}
	for _, key := range []string{"cadence", "probe_timeout"} {
		d, err := getTableDuration(table, key)
		if err != nil {
			return nil, err
		}
		if d != nil {
			out[key] = d
		}
	}

	sections := []struct {
		name    string
		strings []string
		ints    []string
	}{
		{name: "thermal", strings: []string{"cpu", "ddr"}},
		{name: "proc", strings: []string{"stat", "loadavg"}},
		{name: "display", strings: []string{"sink"}, ints: []string{"device", "rows", "columns", "line_length", "rotation"}},
		{name: "log", strings: []string{"level", "format", "file"}},
	}
	for _, sec := range sections {
		val := table.Get(rt.StringValue(sec.name))
		if val == rt.NilValue {
			continue
		}
		sub, ok := val.TryTable()
		if !ok {
			return nil, fmt.Errorf("oled.config.%s is not a table", sec.name)
		}
		m := make(map[string]any)
		for _, key := range sec.strings {
			if s := getTableString(sub, key); s != nil {
				m[key] = *s
			}
		}
		for _, key := range sec.ints {
			if n := getTableInt(sub, key); n != nil {
				m[key] = *n
			}
		}
		if len(m) > 0 {
			out[sec.name] = m
		}
	}

	return out, nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableDuration accepts either a number of seconds or a Go duration
// string such as "750ms".
func getTableDuration(table *rt.Table, key string) (any, error) {
	if s := getTableString(table, key); s != nil {
		d, err := time.ParseDuration(*s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	}
	if f := getTableFloat(table, key); f != nil {
		return time.Duration(*f * float64(time.Second)), nil
	}
	return nil, nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if s, ok := val.TryString(); ok {
		return &s
	}

	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryFloat(); ok {
		return &n
	}

	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}

	return nil
}

// getTableInt retrieves an int value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}

	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}

	return nil
}
