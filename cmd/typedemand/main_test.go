package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/typedemand/internal/mismatchlog"
)

const okSuite = `name: ok
demands:
  - { op: eqtype, expected: Int, actual: Int }
`

const badSuite = `name: bad
demands:
  - { op: eqtype, expected: Int, actual: String }
  - { op: suptype, expected: Bool, actual: Int }
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	settings := writeFile(t, dir, "typedemand.yaml", "schema: \"1.0\"\n")
	ok := writeFile(t, dir, "ok.demand.yaml", okSuite)
	bad := writeFile(t, dir, "bad.demand.yaml", badSuite)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  []string
	}{
		{"passing", []string{"-config", settings, ok}, exitOK, nil},
		{"failing", []string{"-config", settings, ok, bad}, exitDiagnostics, []string{
			"bad.demand.yaml:3:5: error[T001]: mismatched types: expected Int, found String",
			"bad.demand.yaml:4:5: error[T002]",
			"2 error(s)",
		}},
		{"no_args", []string{"-config", settings}, exitUsage, nil},
		{"missing_file", []string{"-config", settings, filepath.Join(dir, "nope.demand.yaml")}, exitUsage, nil},
		{"bad_flag", []string{"-nope"}, exitUsage, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, tt.args...)
			if code != tt.wantCode {
				t.Fatalf("exit %d, want %d\nstdout:\n%s\nstderr:\n%s", code, tt.wantCode, out, errOut)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out, want) {
					t.Errorf("stdout lacks %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRunDirectoryInOrder(t *testing.T) {
	dir := t.TempDir()
	settings := writeFile(t, dir, "typedemand.yaml", "schema: \"1.0\"\n")
	writeFile(t, dir, "suites/a.demand.yaml", badSuite)
	writeFile(t, dir, "suites/nested/b.demand.yaml", badSuite)
	writeFile(t, dir, "suites/notes.txt", "not a suite")

	code, out, _ := runCLI(t, "-config", settings, "-j", "4", filepath.Join(dir, "suites"))
	if code != exitDiagnostics {
		t.Fatalf("exit %d", code)
	}
	a := strings.Index(out, "a.demand.yaml")
	b := strings.Index(out, "b.demand.yaml")
	if a < 0 || b < 0 || a > b {
		t.Errorf("suites not reported in order:\n%s", out)
	}
	if strings.Count(out, "error[T001]") != 2 {
		t.Errorf("expected one T001 per suite:\n%s", out)
	}
}

func TestRunRecordsMismatches(t *testing.T) {
	dir := t.TempDir()
	settings := writeFile(t, dir, "typedemand.yaml", "schema: \"1.0\"\n")
	bad := writeFile(t, dir, "bad.demand.yaml", badSuite)
	db := filepath.Join(dir, "mismatches.db")

	if code, out, _ := runCLI(t, "-config", settings, "-record", db, bad); code != exitDiagnostics {
		t.Fatalf("exit %d:\n%s", code, out)
	}

	store, err := mismatchlog.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	entries, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("recorded %d mismatches, want 2", len(entries))
	}
	if entries[0].Relation != "equal" || entries[1].Relation != "subtype" {
		t.Errorf("relations = %s, %s", entries[0].Relation, entries[1].Relation)
	}
	if entries[0].Session == "" || entries[0].Session != entries[1].Session {
		t.Errorf("one suite is one session: %q vs %q", entries[0].Session, entries[1].Session)
	}
}

func TestStrictUnionsFromSettings(t *testing.T) {
	dir := t.TempDir()
	settings := writeFile(t, dir, "typedemand.yaml", "schema: \"1.0\"\nstrict_unions: true\n")
	suite := writeFile(t, dir, "u.demand.yaml", "demands:\n  - { op: suptype, expected: \"Int | Nil\", actual: Int }\n")

	code, out, _ := runCLI(t, "-config", settings, suite)
	if code != exitDiagnostics || !strings.Contains(out, "not a union member") {
		t.Errorf("exit %d:\n%s", code, out)
	}
}
