package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordHash(0.05)
	m.RecordHash(0.07)
	m.RecordHashError()
	m.RecordVerification(true)
	m.RecordVerification(false)
	m.RecordVerification(true)
	m.RecordStatement()

	if got := testutil.ToFloat64(m.Hashes); got != 2 {
		t.Errorf("hashes = %v", got)
	}
	if got := testutil.ToFloat64(m.HashErrors); got != 1 {
		t.Errorf("hash errors = %v", got)
	}
	if got := testutil.ToFloat64(m.Verifications.WithLabelValues("success")); got != 2 {
		t.Errorf("successful verifications = %v", got)
	}
	if got := testutil.ToFloat64(m.Verifications.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed verifications = %v", got)
	}
	if got := testutil.ToFloat64(m.Statements); got != 1 {
		t.Errorf("statements = %v", got)
	}
	if got := testutil.CollectAndCount(m.HashDuration); got != 1 {
		t.Errorf("histogram series = %d", got)
	}
}

func TestRecordExistingCheck(t *testing.T) {
	m := New()

	m.RecordExistingCheck(true, false)
	m.RecordExistingCheck(false, false)
	m.RecordExistingCheck(false, false)
	m.RecordExistingCheck(false, true)

	for result, want := range map[string]float64{"match": 1, "mismatch": 2, "malformed": 1} {
		if got := testutil.ToFloat64(m.ExistingChecks.WithLabelValues(result)); got != want {
			t.Errorf("%s checks = %v, want %v", result, got, want)
		}
	}
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	// Two instances must not collide on registration
	a := New()
	b := New()
	a.RecordStatement()

	if got := testutil.ToFloat64(b.Statements); got != 0 {
		t.Errorf("registries are shared: %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordHash(0.1)
	m.RecordVerification(true)

	path := filepath.Join(t.TempDir(), "adminpw.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		"adminpw_hashes_total 1",
		`adminpw_verifications_total{result="success"} 1`,
		"adminpw_hash_duration_seconds_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	m := New()
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "adminpw.prom")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
