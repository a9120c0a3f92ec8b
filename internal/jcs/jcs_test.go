package jcs

import "testing"

func TestCanonicalizeJSON(t *testing.T) {
	out, err := CanonicalizeJSON([]byte(`{ "status":"BLOCKED", "issues":3 }`))
	if err != nil {
		t.Fatalf("canonicalize error: %v", err)
	}
	if string(out) != `{"issues":3,"status":"BLOCKED"}` {
		t.Fatalf("unexpected canonical form: %s", string(out))
	}
}

func TestDigestJCSStable(t *testing.T) {
	da, err := DigestJCS([]byte(`{"a":1,"b":[1,2]}`))
	if err != nil {
		t.Fatalf("digest error: %v", err)
	}
	db, err := DigestJCS([]byte(`{ "b":[1, 2], "a":1 }`))
	if err != nil {
		t.Fatalf("digest error: %v", err)
	}
	if da != db {
		t.Fatalf("expected same digest for equivalent JSON")
	}
	if len(da) != 64 {
		t.Fatalf("unexpected digest length: %d", len(da))
	}
}

func TestFingerprintIgnoresMapOrder(t *testing.T) {
	a := map[string]any{"shipment_id": "SHIP-1", "total_issues": 2}
	b := map[string]any{"total_issues": 2, "shipment_id": "SHIP-1"}
	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatalf("fingerprint error: %v", err)
	}
	fb, err := Fingerprint(b)
	if err != nil {
		t.Fatalf("fingerprint error: %v", err)
	}
	if fa != fb {
		t.Fatalf("expected equal fingerprints")
	}
	if fc, _ := Fingerprint(map[string]any{"shipment_id": "SHIP-2"}); fc == fa {
		t.Fatalf("expected different fingerprint for different input")
	}
}

func TestInvalidJSON(t *testing.T) {
	if _, err := CanonicalizeJSON([]byte(`{`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
	if _, err := DigestJCS([]byte(`{`)); err == nil {
		t.Fatalf("expected error for invalid JSON digest")
	}
	if _, err := Fingerprint(make(chan int)); err == nil {
		t.Fatalf("expected error for unmarshalable value")
	}
}
