package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/backdrop/pkg/config"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	for _, name := range []string{"serve", "render", "shapes", "config", "watch", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "snap.svg")

	if _, err := execute(t, "render", "--seed", "7", "-n", "3", "--width", "640", "--height", "480", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svg := string(data)
	if got := strings.Count(svg, "<path"); got != 3 {
		t.Errorf("paths = %d, want 3", got)
	}
	if !strings.Contains(svg, `viewBox="0 0 640 480"`) {
		t.Error("viewBox does not match the requested viewport")
	}
}

func TestRenderCommandStdoutIsReproducible(t *testing.T) {
	args := []string{"render", "--seed", "11", "-n", "4", "--static", "-o", "-"}
	first, err := execute(t, args...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := execute(t, args...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if first != second {
		t.Error("same seed produced different output")
	}
	if strings.Contains(first, "animated-path") {
		t.Error("--static output should not animate")
	}
}

func TestRenderCommandRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", "-f", "gif", "-o", "-"}},
		{"zero width", []string{"render", "--width", "0", "-o", "-"}},
		{"inverted sizes", []string{"render", "--min-size", "300", "--max-size", "100", "-o", "-"}},
		{"bad color", []string{"render", "--colors", "blue", "-o", "-"}},
		{"markup in background", []string{"render", "--background", `"/><script>`, "-o", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, output string
		want           string
		wantErr        bool
	}{
		{"", "out.svg", "svg", false},
		{"", "out.PNG", "png", false},
		{"", "-", "svg", false},
		{"", "noext", "svg", false},
		{"pdf", "out.svg", "pdf", false},
		{"", "out.gif", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.format+"|"+tt.output, func(t *testing.T) {
			got, err := resolveFormat(tt.format, tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.format, tt.output, got, tt.want)
			}
		})
	}
}

func TestShapesCommand(t *testing.T) {
	out, err := execute(t, "shapes", "--json")
	if err != nil {
		t.Fatalf("shapes: %v", err)
	}
	var rows []shapeRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 21 {
		t.Fatalf("rows = %d, want 21", len(rows))
	}
	if rows[0].Name != "rectangle" || rows[0].Length != 320 || rows[0].Subpaths != 1 {
		t.Errorf("first row = %+v", rows[0])
	}

	table, err := execute(t, "shapes")
	if err != nil {
		t.Fatalf("shapes: %v", err)
	}
	for _, want := range []string{"21 shapes", "rectangle", "speech-bubble", "320.00"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backdrop.toml")

	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written file: %v", err)
	}
	if cfg.MaxElements != config.Default().MaxElements {
		t.Errorf("MaxElements = %d, want default", cfg.MaxElements)
	}

	got, err := execute(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(got) != path {
		t.Errorf("config path = %q, want %q", got, path)
	}

	shown, err := execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(shown, "max_elements = 20") {
		t.Errorf("config show = %q", shown)
	}

	palette, err := execute(t, "config", "palette")
	if err != nil {
		t.Fatalf("config palette: %v", err)
	}
	if !strings.Contains(palette, "#8b5cf6") || !strings.Contains(palette, "hsl(") {
		t.Errorf("palette = %q", palette)
	}
}

func TestConfigFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("max_elements = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", path, "shapes"); err == nil {
		t.Error("invalid config file should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "backdrop") {
		t.Error("bash completion does not mention backdrop")
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8080":          "localhost:8080",
		"0.0.0.0:9000":   "localhost:9000",
		"[::]:8080":      "localhost:8080",
		"127.0.0.1:8080": "127.0.0.1:8080",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
