package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const salesCSV = "region,units,price\n" +
	"north,10,2.5\n" +
	"south,12,2.75\n" +
	"east,7,3.1\n" +
	"west,15,2.2\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestNewProfileCmdFlags(t *testing.T) {
	cmd := NewProfileCmd()

	flags := map[string]string{
		"format":   "f",
		"charts":   "o",
		"describe": "d",
	}
	for name, shorthand := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("expected flag %q", name)
		}
		if f.Shorthand != shorthand {
			t.Fatalf("flag %q: expected shorthand %q, got %q", name, shorthand, f.Shorthand)
		}
	}
	if got := cmd.Flags().Lookup("format").DefValue; got != formatJSON {
		t.Fatalf("expected default format %q, got %q", formatJSON, got)
	}
}

func TestProfileCmdJSON(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, err := runRoot(t, "profile", path)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	var report struct {
		Table struct {
			Rows      int `json:"n"`
			Variables int `json:"n_var"`
		} `json:"table"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Table.Rows != 4 || report.Table.Variables != 3 {
		t.Fatalf("unexpected table stats: %+v", report.Table)
	}
}

func TestProfileCmdDescribe(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, err := runRoot(t, "profile", "--describe", path)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	var table struct {
		Columns []string `json:"columns"`
		Index   []string `json:"index"`
	}
	if err := json.Unmarshal([]byte(out), &table); err != nil {
		t.Fatalf("decode describe: %v", err)
	}
	if strings.Join(table.Columns, ",") != "units,price" {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
	if len(table.Index) != 8 {
		t.Fatalf("expected 8 index rows, got %v", table.Index)
	}
}

func TestProfileCmdMarkdownWithCharts(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	dir := filepath.Join(t.TempDir(), "figures")

	out, err := runRoot(t, "profile", "--format", "markdown", "--charts", dir, path)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !strings.HasPrefix(out, "# ") {
		t.Fatalf("expected a markdown heading, got %q", out[:min(len(out), 40)])
	}

	for _, name := range []string{"heatmap.png", "histogram-1.png", "count-1.png", "pairplot.png", "box-2.png"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.HasPrefix(b, []byte("\x89PNG")) {
			t.Fatalf("%s is not a png", name)
		}
	}
}

func TestProfileCmdErrors(t *testing.T) {
	unsupported := writeFile(t, "notes.txt", "hello")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unsupported file", args: []string{"profile", unsupported}, want: "An error occurred: "},
		{name: "missing file", args: []string{"profile", filepath.Join(t.TempDir(), "gone.csv")}, want: "An error occurred: "},
		{name: "unknown format", args: []string{"profile", "--format", "xml", unsupported}, want: "unknown output format"},
		{name: "no file", args: []string{"profile"}, want: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRoot(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}
