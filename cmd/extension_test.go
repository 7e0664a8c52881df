package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionEnv(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvTradesFile, "trades.jsonl")
	t.Setenv(EnvVerbose, "false")
	t.Setenv(EnvTestingNow, "2024-01-02 10:00:00")
	t.Setenv(EnvPlain, "true")

	env, err := extensionEnv()
	if err != nil {
		t.Fatalf("extensionEnv() error = %v", err)
	}
	// the resolved values come last, so they win over the inherited ones.
	last := make(map[string]string)
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		last[k] = v
	}
	want := map[string]string{
		EnvTradesFile: "trades.jsonl",
		EnvVerbose:    "false",
		EnvTestingNow: "2024-01-02 10:00:00",
		EnvPlain:      "true",
	}
	for k, v := range want {
		if last[k] != v {
			t.Errorf("%s = %q, want %q", k, last[k], v)
		}
	}
}

func TestRunExtensionNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	found, code := RunExtension("does-not-exist", nil)
	if found || code != 0 {
		t.Errorf("RunExtension() = (%v, %d), want (false, 0)", found, code)
	}
}

func TestExtensionMechanism(t *testing.T) {
	tempDir := t.TempDir()

	helloSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, EnvTradesFile, EnvTradesFile, EnvVerbose, EnvVerbose)

	helloPath := filepath.Join(tempDir, "gbce-hello")
	srcFile := helloPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloSource), 0644); err != nil {
		t.Fatalf("Failed to write gbce-hello source: %v", err)
	}
	build := exec.Command("go", "build", "-o", helloPath, srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile gbce-hello: %v", err)
	}

	gbcePath := filepath.Join(tempDir, "gbce")
	build = exec.Command("go", "build", "-o", gbcePath, "../gbce")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile gbce binary: %v", err)
	}

	tradesFile := filepath.Join(tempDir, "random_trades.jsonl")
	run := exec.Command(gbcePath, "-trades", tradesFile, "-v", "hello", "world")
	run.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH")}

	var stdout, stderr bytes.Buffer
	run.Stdout = &stdout
	run.Stderr = &stderr
	if err := run.Run(); err != nil {
		t.Fatalf("gbce command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{
		EnvTradesFile + "=" + tradesFile,
		EnvVerbose + "=true",
		"args=[world]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, output)
		}
	}
}
