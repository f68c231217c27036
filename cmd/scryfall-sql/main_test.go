package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scryfallsql/internal/config"
)

const onePrinting = `[{"id":"0aeebaf5-8c7d-4636-9e82-8c27447861f7","oracle_id":"b34bb2dc-c1af-4d77-b0b3-a0fb342a5fc6",` +
	`"name":"Opt","cmc":1,"mana_cost":"{U}","type_line":"Instant","oracle_text":"Scry 1.\nDraw a card.",` +
	`"color_identity":["U"],"legalities":{"modern":"legal"},"set":"xln","set_name":"Ixalan",` +
	`"released_at":"2017-09-29","collector_number":"65","rarity":"common","games":["paper","arena"]}]`

func testConfig(t *testing.T, input string) config.Config {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "cards.json")
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Defaults()
	cfg.InputPath = in
	cfg.OutputPath = filepath.Join(dir, "output", "run.sql")
	cfg.SkippedPath = filepath.Join(dir, "skipped.csv")
	return cfg
}

func TestRun_WritesScriptAndSkipLog(t *testing.T) {
	cfg := testConfig(t, onePrinting)
	cfg.EmitSchema = true

	if err := run(cfg); err != nil {
		t.Fatalf("run: %v", err)
	}

	script, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	for _, want := range []string{
		`CREATE SCHEMA IF NOT EXISTS "scryfall";`,
		"BEGIN TRANSACTION;\n",
		`INSERT INTO "scryfall"."set"`,
		`'Scry 1.`,
		"END TRANSACTION;\n",
	} {
		if !strings.Contains(string(script), want) {
			t.Fatalf("script missing %q:\n%s", want, script)
		}
	}

	report, err := os.ReadFile(cfg.SkippedPath)
	if err != nil {
		t.Fatalf("read skip log: %v", err)
	}
	if got := strings.TrimSpace(string(report)); got != "reason,record,printing_id,name" {
		t.Fatalf("skip log = %q, want header only", got)
	}
}

func TestRun_FailureRemovesOutput(t *testing.T) {
	cfg := testConfig(t, `{"name":`)

	if err := run(cfg); err == nil {
		t.Fatal("run succeeded on truncated input")
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("output left behind after failure: %v", err)
	}
}

func TestRun_MissingInput(t *testing.T) {
	cfg := testConfig(t, "[]")
	cfg.InputPath = filepath.Join(t.TempDir(), "missing.json")

	if err := run(cfg); err == nil {
		t.Fatal("run succeeded without input")
	}
}
