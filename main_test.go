package main

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/atomicstack/coco/internal/app"
	"github.com/atomicstack/coco/internal/config"
	"github.com/atomicstack/coco/internal/filter"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Query:   "foo",
			Prompt:  "QUERY> ",
			Filter:  filter.SmartCase,
			Filters: filter.DefaultModes(),
			Backend: app.BackendTea,
			Height:  12,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"query":  "foo",
			"filter": "SmartCase",
			"height": "12",
		},
		Args: []string{"--query", "foo"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["query"] != "foo" {
		t.Fatalf("expected query flag %q, got %v", "foo", flagsValue["query"])
	}
	if flagsValue["filter"] != "SmartCase" {
		t.Fatalf("expected filter SmartCase, got %v", flagsValue["filter"])
	}
	if flagsValue["height"] != "12" {
		t.Fatalf("expected height 12, got %v", flagsValue["height"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if !reflect.DeepEqual(cfgValue.App, cfg.App) {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	if err := writeLines(&buf, []string{"banana", "", "🍣"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "banana\n\n🍣\n" {
		t.Fatalf("expected newline separated output, got %q", got)
	}
	buf.Reset()
	if err := writeLines(&buf, nil); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output for a cancelled selection, got %q (%v)", buf.String(), err)
	}
}
