package arcanumctl

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("arcanumctl", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("expected default locale en-US, got %q", cfg.Locale)
	}
	if cfg.Command != "" {
		t.Fatalf("expected no command, got %q", cfg.Command)
	}
}

func TestParseConfigOverridesAndCommand(t *testing.T) {
	fs := flag.NewFlagSet("arcanumctl", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-base-url", "https://api.example.test", "-token", "t-1", "sheet", "7"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.BaseURL != "https://api.example.test" {
		t.Fatalf("expected base url override, got %q", cfg.BaseURL)
	}
	if cfg.Token != "t-1" {
		t.Fatalf("expected token override, got %q", cfg.Token)
	}
	if cfg.Command != "sheet" {
		t.Fatalf("expected sheet command, got %q", cfg.Command)
	}
	if len(cfg.Args) != 1 || cfg.Args[0] != "7" {
		t.Fatalf("expected args [7], got %v", cfg.Args)
	}
}

func TestRunRequiresCommand(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Config{BaseURL: "http://localhost", Token: "t"}, &out)
	if err == nil || !strings.Contains(err.Error(), "usage:") {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Config{BaseURL: "http://localhost", Token: "t", Command: "explode"}, &out)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunSheetPrintsCharacter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":      7,
			"name":    "Vex",
			"credits": 100,
			"primary_stats": []map[string]any{
				{"code": "vigor", "name": "Vigor", "max": 5},
			},
			"temporary_stats": map[string]int{"vigor": 3},
			"items": []map[string]any{
				{"id": 3, "name": "Cloak", "is_equipped": true},
			},
		})
	}))
	defer server.Close()

	var out bytes.Buffer
	cfg := Config{BaseURL: server.URL, Token: "t", Locale: "en-US", Command: "sheet", Args: []string{"7"}}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run sheet: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Vex (#7)", "credits: 100", "Vigor", "3/5", "* Cloak"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunSheetRendersLocalizedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var out bytes.Buffer
	cfg := Config{BaseURL: server.URL, Token: "t", Locale: "en-US", Command: "sheet", Args: []string{"999"}}
	err := Run(context.Background(), cfg, &out)
	if err == nil {
		t.Fatal("expected error for missing character")
	}
}
