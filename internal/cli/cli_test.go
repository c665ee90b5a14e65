package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartkit/pkg/cache"
	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/observability"
)

const twoCharts = `{
  "title": "Report",
  "charts": [
    {"id": "sales", "type": "bar", "series": [{"name": "2024", "data": [1, 2]}]},
    {"id": "share", "type": "pie", "labels": ["A", "B"], "series": [{"data": [3, 4]}]}
  ]
}`

// writeDefinition writes body to a definition file in a temp dir.
func writeDefinition(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns what it wrote to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedisURL, "")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// =============================================================================
// Logging
// =============================================================================

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("x") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("rendered", "charts", 2)

	out := buf.String()
	if !strings.Contains(out, "rendered") || !strings.Contains(out, "charts=2") || !strings.Contains(out, "took=") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}
	l := newLogger(io.Discard, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogInfo)
	if _, ok := observability.Render().(observability.NoopRenderHooks); !ok {
		t.Errorf("info level render hooks = %T, want noop", observability.Render())
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.Render().(*observability.LogHooks); !ok {
		t.Errorf("debug level render hooks = %T, want *LogHooks", observability.Render())
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("logger level = %v, want debug", c.Logger.GetLevel())
	}
}

// =============================================================================
// Paths & Cache
// =============================================================================

func TestCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}

	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", home)
	dir, err = cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedisURL, "")
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	ch, _, err := c.newCache(ctx, cacheOpts{noCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(*cache.NullCache); !ok {
		t.Errorf("--no-cache backend = %T, want *cache.NullCache", ch)
	}

	ch, _, err = c.newCache(ctx, cacheOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("default backend = %T, want *cache.FileCache", ch)
	}

	if _, _, err := c.newCache(ctx, cacheOpts{redisURL: "http://localhost:6379"}); err == nil {
		t.Error("newCache should reject a non-redis URL")
	}

	t.Setenv(envRedisURL, "http://localhost:6379")
	if _, _, err := c.newCache(ctx, cacheOpts{}); err == nil {
		t.Errorf("newCache should read $%s", envRedisURL)
	}
}

func TestCacheClear(t *testing.T) {
	path := writeDefinition(t, "charts.json", twoCharts)
	xdg := t.TempDir()

	c := New(io.Discard, LogInfo)
	run := func(args ...string) {
		t.Helper()
		t.Setenv("XDG_CACHE_HOME", xdg)
		root := c.RootCommand()
		root.SetOut(io.Discard)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	countFiles := func() int {
		n := 0
		_ = filepath.Walk(filepath.Join(xdg, appName), func(_ string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				n++
			}
			return nil
		})
		return n
	}

	run("render", path)
	if n := countFiles(); n != 2 {
		t.Fatalf("cached entries after render = %d, want 2", n)
	}
	run("cache", "info")
	run("cache", "clear")
	if n := countFiles(); n != 0 {
		t.Errorf("cached entries after clear = %d, want 0", n)
	}
}

func TestClearCacheDirMissing(t *testing.T) {
	n, err := clearCacheDir(filepath.Join(t.TempDir(), "absent"))
	if n != 0 || err != nil {
		t.Errorf("clearCacheDir(missing) = %d, %v, want 0, nil", n, err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

// =============================================================================
// Commands
// =============================================================================

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"cache", "completion", "inspect", "render", "serve"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("subcommands = %v, want %v", got, want)
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeDefinition(t, "charts.json", twoCharts)

	tests := []struct {
		name     string
		args     []string
		contains []string
		lines    int
	}{
		{
			name:     "script default",
			args:     []string{"render", path, "--no-cache"},
			contains: []string{`var chart_sales = new ApexCharts(document.querySelector("#chart-sales"), {`, "chart_share.render();"},
			lines:    2,
		},
		{
			name:     "options of one chart",
			args:     []string{"render", path, "--format", "options", "--chart", "sales"},
			contains: []string{`"type":"bar"`, `"data":[1,2]`},
			lines:    1,
		},
		{
			name:     "sorted pretty options",
			args:     []string{"render", path, "-f", "options", "--chart", "share", "--sort-keys", "--pretty"},
			contains: []string{"{\n  \"chart\": {", `"labels": [`},
		},
		{
			name:     "custom selector",
			args:     []string{"render", path, "--chart", "sales", "--selector", ".main"},
			contains: []string{`document.querySelector(".main")`},
			lines:    1,
		},
		{
			name:     "html page",
			args:     []string{"render", path, "--format", "html"},
			contains: []string{"<title>Report</title>", `<div id="chart-sales"></div>`, `<div id="chart-share"></div>`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			if tt.lines > 0 {
				if got := strings.Count(out, "\n"); got != tt.lines {
					t.Errorf("output lines = %d, want %d", got, tt.lines)
				}
			}
			if strings.Contains(out, "new WebSocket") {
				t.Error("rendered output should not contain the live reload script")
			}
		})
	}
}

func TestRenderCommandOutputFile(t *testing.T) {
	path := writeDefinition(t, "charts.json", twoCharts)
	dest := filepath.Join(t.TempDir(), "report.html")

	out, err := execute(t, "render", path, "--format", "html", "-o", dest)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("render -o wrote to stdout: %q", out)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<div id="chart-share"></div>`) {
		t.Errorf("page missing chart div:\n%s", data)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	path := writeDefinition(t, "charts.json", twoCharts)

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"unknown chart", []string{"render", path, "--chart", "nope"}, errs.ErrCodeChartNotFound},
		{"bad format", []string{"render", path, "--format", "svg"}, errs.ErrCodeInvalidFormat},
		{"bad selector", []string{"render", path, "--selector", `a"b`}, errs.ErrCodeInvalidSelector},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "none.toml")}, errs.ErrCodeFileNotFound},
		{"unknown extension", []string{"render", writeDefinition(t, "charts.ini", "")}, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("GetCode(%v) = %s, want %s", err, got, tt.code)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, "chartkit") {
			t.Errorf("completion %s does not mention chartkit", shell)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion should reject unknown shells")
	}
}

func TestServeURL(t *testing.T) {
	tests := []struct{ addr, want string }{
		{":8080", "http://localhost:8080"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000"},
	}
	for _, tt := range tests {
		if got := serveURL(tt.addr); got != tt.want {
			t.Errorf("serveURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
