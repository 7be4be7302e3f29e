package store_test

import (
	"testing"

	"github.com/jacentio/buttress/store"
)

func TestNewRegistry(t *testing.T) {
	r := store.NewRegistry()
	if r == nil {
		t.Fatal("expected non-nil Registry")
	}
	if r.Registered("items") {
		t.Error("expected a fresh registry to hold no tables")
	}
}

func TestRegistry_Register(t *testing.T) {
	r := store.NewRegistry()
	r.Register("items", "pk", "sk")

	attrs := r.KeyAttributes("items")
	if len(attrs) != 2 {
		t.Fatalf("expected 2 key attributes, got %d", len(attrs))
	}
	if attrs[0] != "pk" || attrs[1] != "sk" {
		t.Errorf("expected [pk sk], got %v", attrs)
	}
	if !r.Registered("items") {
		t.Error("expected the table to be registered")
	}
}

func TestRegistry_KeyAttributes_Unknown(t *testing.T) {
	r := store.NewRegistry()

	if attrs := r.KeyAttributes("missing"); attrs != nil {
		t.Errorf("expected nil for an unknown table, got %v", attrs)
	}
	if r.Registered("missing") {
		t.Error("expected an unknown table to be unregistered")
	}
}

func TestRegistry_Register_Replaces(t *testing.T) {
	r := store.NewRegistry()
	r.Register("items", "pk", "sk")
	r.Register("items", "id")

	attrs := r.KeyAttributes("items")
	if len(attrs) != 1 || attrs[0] != "id" {
		t.Errorf("expected re-registration to replace the schema, got %v", attrs)
	}
}

func TestRegistry_Register_CopiesInput(t *testing.T) {
	r := store.NewRegistry()
	attrs := []string{"pk", "sk"}
	r.Register("items", attrs...)

	attrs[0] = "mutated"
	if got := r.KeyAttributes("items"); got[0] != "pk" {
		t.Errorf("expected the registry to keep its own copy, got %v", got)
	}
}
