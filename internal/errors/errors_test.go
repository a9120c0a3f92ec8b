package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestWrapRoundTrip(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, KindDependencyUnavailable, "hs_table_unreadable", "check DATA_DIR")
	if err == nil {
		t.Fatal("expected wrapped error")
	}
	if KindOf(err) != KindDependencyUnavailable {
		t.Fatalf("unexpected kind: %s", KindOf(err))
	}
	if CodeOf(err) != "hs_table_unreadable" {
		t.Fatalf("unexpected code: %s", CodeOf(err))
	}
	if HintOf(err) != "check DATA_DIR" {
		t.Fatalf("unexpected hint: %s", HintOf(err))
	}
	if !stderrors.Is(err, base) {
		t.Fatal("expected wrapped error to preserve cause")
	}
}

func TestKindSurvivesFmtWrapping(t *testing.T) {
	err := fmt.Errorf("load shipment: %w", New(KindNotFound, "document_not_found", "document %s not found", "INV-001"))
	if !Is(err, KindNotFound) {
		t.Fatalf("expected not_found kind, got %q", KindOf(err))
	}
	if err.Error() != "load shipment: document INV-001 not found" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestUnknownErrorDefaults(t *testing.T) {
	err := stderrors.New("plain")
	if KindOf(err) != "" || CodeOf(err) != "" || HintOf(err) != "" {
		t.Fatalf("expected empty classification for plain error")
	}
	if Is(nil, KindNotFound) {
		t.Fatal("nil error must not match any kind")
	}
}

func TestWrapNilCauseReturnsNil(t *testing.T) {
	if got := Wrap(nil, KindInvalidInput, "invalid_input", ""); got != nil {
		t.Fatalf("expected nil wrapped error, got=%v", got)
	}
}
