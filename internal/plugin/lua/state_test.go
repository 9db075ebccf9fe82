package lua

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/usercast/internal/logging"
)

func TestStateDoString(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(context.Background(), `x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if num, ok := state.GetGlobal("x").(glua.LNumber); !ok || float64(num) != 2 {
		t.Errorf("x = %v, want 2", state.GetGlobal("x"))
	}
}

func TestStateDoStringSyntaxError(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(context.Background(), `invalid lua code !!!`); err == nil {
		t.Error("DoString() should fail for invalid code")
	}
}

func TestStateDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`greeting = string.upper("hey")`), 0o644); err != nil {
		t.Fatal(err)
	}

	state := NewState()
	defer state.Close()

	if err := state.DoFile(context.Background(), path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	if got := state.GetGlobal("greeting").String(); got != "HEY" {
		t.Errorf("greeting = %q, want HEY", got)
	}
}

func TestStateSandbox(t *testing.T) {
	state := NewState()
	defer state.Close()

	for _, name := range []string{"io", "os", "debug", "package", "require", "dofile", "loadfile", "load", "loadstring"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("global %q is available in the sandbox", name)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs", "tostring"} {
		if v := state.GetGlobal(name); v == glua.LNil {
			t.Errorf("global %q is missing", name)
		}
	}
}

func TestStatePrintLogs(t *testing.T) {
	var out bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelInfo, Output: &out, Prefix: "test"})

	state := NewState(WithLogger(logger))
	defer state.Close()

	if err := state.DoString(context.Background(), `print("hello", 42)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if !strings.Contains(out.String(), "hello\t42") {
		t.Errorf("log output = %q", out.String())
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("DoString() error = %v, want ErrExecutionTimeout", err)
	}
}

func TestStateClose(t *testing.T) {
	state := NewState()
	if err := state.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := state.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close error = %v, want ErrStateClosed", err)
	}
	if state.GetGlobal("x") != glua.LNil {
		t.Error("GetGlobal() after Close should return LNil")
	}
}
