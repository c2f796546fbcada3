package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sunholo/deplang/internal/ast"
)

func TestAsReport(t *testing.T) {
	pos := &ast.Pos{Line: 3, Column: 7, File: "test.dpl"}
	err := New(TC002, "typecheck", "type mismatch", pos)

	rep, ok := AsReport(err)
	if !ok {
		t.Fatal("expected a report")
	}
	if rep.Code != TC002 || rep.Phase != "typecheck" {
		t.Errorf("wrong report: %+v", rep)
	}
	if !strings.Contains(err.Error(), "test.dpl:3:7") {
		t.Errorf("position missing from message: %s", err.Error())
	}
}

func TestAsReportSurvivesWrapping(t *testing.T) {
	err := New(TC001, "typecheck", "unbound variable x", nil)
	wrapped := fmt.Errorf("while checking: %w", err)

	rep, ok := AsReport(wrapped)
	if !ok {
		t.Fatal("report lost through wrapping")
	}
	if rep.Code != TC001 {
		t.Errorf("expected TC001, got %s", rep.Code)
	}
}

func TestAsReportNonReport(t *testing.T) {
	if _, ok := AsReport(errors.New("plain")); ok {
		t.Fatal("plain errors must not produce reports")
	}
}

func TestToJSON(t *testing.T) {
	err := WithData(TC005, "typecheck", "unknown field z", nil, map[string]any{"label": "z"})
	rep, _ := AsReport(err)

	out, jerr := rep.ToJSON(true)
	if jerr != nil {
		t.Fatal(jerr)
	}
	var decoded map[string]any
	if uerr := json.Unmarshal([]byte(out), &decoded); uerr != nil {
		t.Fatalf("invalid json: %v", uerr)
	}
	if decoded["schema"] != SchemaVersion {
		t.Errorf("schema missing: %s", out)
	}
	if decoded["code"] != TC005 {
		t.Errorf("code missing: %s", out)
	}
}
