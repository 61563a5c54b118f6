package vendors_test

import (
	"strings"
	"testing"

	"invoiceflow/internal/vendors"
)

func TestReconcileCreatesNewVendor(t *testing.T) {
	reg := &vendors.Registry{}

	changed := vendors.Reconcile(reg, "Amazon EU Sarl", "Amazon")
	if !changed {
		t.Fatal("expected registry change")
	}
	if len(reg.Vendors) != 1 {
		t.Fatalf("expected 1 record, got %d", len(reg.Vendors))
	}
	rec := reg.Vendors[0]
	if rec.Name != "Amazon" {
		t.Errorf("canonical name = %q, want %q", rec.Name, "Amazon")
	}
	if len(rec.Aliases) != 1 || rec.Aliases[0] != "Amazon EU Sarl" {
		t.Errorf("aliases = %v, want [Amazon EU Sarl]", rec.Aliases)
	}
}

func TestReconcileNewVendorWithMatchingRawName(t *testing.T) {
	reg := &vendors.Registry{}

	vendors.Reconcile(reg, "amazon", "Amazon")
	if len(reg.Vendors) != 1 {
		t.Fatalf("expected 1 record, got %d", len(reg.Vendors))
	}
	// Raw name equals the canonical key case-insensitively, so no alias.
	if len(reg.Vendors[0].Aliases) != 0 {
		t.Errorf("aliases = %v, want none", reg.Vendors[0].Aliases)
	}
}

func TestReconcileAppendsAlias(t *testing.T) {
	reg := &vendors.Registry{Vendors: []*vendors.Record{
		{Name: "Amazon", Aliases: []string{"Amazon EU Sarl"}},
	}}

	changed := vendors.Reconcile(reg, "AMAZON.COM", "Amazon")
	if !changed {
		t.Fatal("expected registry change")
	}
	rec := reg.Vendors[0]
	if len(rec.Aliases) != 2 {
		t.Fatalf("aliases = %v, want 2 entries", rec.Aliases)
	}
	// Verbatim casing preserved.
	if rec.Aliases[1] != "AMAZON.COM" {
		t.Errorf("second alias = %q, want %q", rec.Aliases[1], "AMAZON.COM")
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	reg := &vendors.Registry{}

	if !vendors.Reconcile(reg, "Amazon EU Sarl", "Amazon") {
		t.Fatal("first call should change the registry")
	}
	if vendors.Reconcile(reg, "Amazon EU Sarl", "Amazon") {
		t.Fatal("second identical call should be a no-op")
	}

	// Case variants of a known alias are duplicates.
	if vendors.Reconcile(reg, "AMAZON EU SARL", "Amazon") {
		t.Fatal("case variant of existing alias should be a no-op")
	}

	seen := map[string]bool{}
	for _, a := range reg.Vendors[0].Aliases {
		low := strings.ToLower(a)
		if seen[low] {
			t.Fatalf("duplicate alias %q", a)
		}
		seen[low] = true
	}
}

func TestReconcileDistinctVendorsStaySeparate(t *testing.T) {
	reg := &vendors.Registry{}

	vendors.Reconcile(reg, "Amazon EU Sarl", "Amazon")
	vendors.Reconcile(reg, "Google Ireland Ltd", "Google")

	if len(reg.Vendors) != 2 {
		t.Fatalf("expected 2 records, got %d", len(reg.Vendors))
	}
	// Insertion order preserved.
	if reg.Vendors[0].Name != "Amazon" || reg.Vendors[1].Name != "Google" {
		t.Errorf("order = [%s, %s]", reg.Vendors[0].Name, reg.Vendors[1].Name)
	}
}

func TestReconcileNormalizesKeyCasing(t *testing.T) {
	reg := &vendors.Registry{}

	vendors.Reconcile(reg, "Amazon EU Sarl", "amazon")
	changed := vendors.Reconcile(reg, "AWS EMEA", "AMAZON")
	if !changed {
		t.Fatal("expected alias append under the same canonical record")
	}
	if len(reg.Vendors) != 1 {
		t.Fatalf("casing variants must collapse to one record, got %d", len(reg.Vendors))
	}
	if len(reg.Vendors[0].Aliases) != 2 {
		t.Fatalf("aliases = %v", reg.Vendors[0].Aliases)
	}
}
