package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeObjectPreservesKeyOrder(t *testing.T) {
	raw := []byte(`{"zulu": 1, "alpha": 2, "mike": {"yankee": true, "bravo": null}}`)

	obj, err := DecodeObject(raw)
	if err != nil {
		t.Fatalf("DecodeObject returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"zulu", "alpha", "mike"}, obj.Keys()); diff != "" {
		t.Fatalf("top-level key order mismatch (-want +got):\n%s", diff)
	}

	nested, ok := obj.GetObject("mike")
	if !ok {
		t.Fatalf("expected mike to decode as nested object")
	}
	if diff := cmp.Diff([]string{"yankee", "bravo"}, nested.Keys()); diff != "" {
		t.Fatalf("nested key order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeObjectRejectsNonObjectRoot(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"text"`, `42`} {
		if _, err := DecodeObject([]byte(raw)); err == nil {
			t.Fatalf("DecodeObject(%s) succeeded, want error", raw)
		}
	}
}

func TestDecodeObjectArraysAndScalars(t *testing.T) {
	raw := []byte(`{"list": ["a", {"inner": 1}], "num": 2.5, "flag": false}`)

	obj, err := DecodeObject(raw)
	if err != nil {
		t.Fatalf("DecodeObject returned error: %v", err)
	}

	entries, ok := obj.Value("list").([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected two-element list, got %#v", obj.Value("list"))
	}
	if _, ok := entries[1].(*Object); !ok {
		t.Fatalf("expected array element to decode as *Object, got %T", entries[1])
	}
	if got := obj.Value("num"); got != 2.5 {
		t.Fatalf("num = %v, want 2.5", got)
	}
	if got := obj.Value("flag"); got != false {
		t.Fatalf("flag = %v, want false", got)
	}
}

func TestObjectSetAppendsNewKeysOnly(t *testing.T) {
	obj := NewObject()
	obj.Set("first", 1)
	obj.Set("second", 2)
	obj.Set("first", 10)

	if diff := cmp.Diff([]string{"first", "second"}, obj.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if got := obj.Value("first"); got != 10 {
		t.Fatalf("first = %v, want 10", got)
	}
}

func TestObjectDelete(t *testing.T) {
	obj := NewObject()
	obj.Set("keep", 1)
	obj.Set("drop", 2)
	obj.Delete("drop")
	obj.Delete("absent")

	if diff := cmp.Diff([]string{"keep"}, obj.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := obj.Get("drop"); ok {
		t.Fatalf("drop still present after delete")
	}
}

func TestObjectCloneIsIndependent(t *testing.T) {
	original, err := DecodeObject([]byte(`{"outer": {"inner": "before"}, "list": [1, 2]}`))
	if err != nil {
		t.Fatalf("DecodeObject returned error: %v", err)
	}

	copied := original.Clone()
	nested, _ := copied.GetObject("outer")
	nested.Set("inner", "after")
	copied.Value("list").([]any)[0] = 99

	originalNested, _ := original.GetObject("outer")
	if got := originalNested.GetString("inner"); got != "before" {
		t.Fatalf("clone mutation leaked into original: inner = %q", got)
	}
	if got := original.Value("list").([]any)[0]; got != float64(1) {
		t.Fatalf("clone mutation leaked into original list: %v", got)
	}
}

func TestMarshalJSONKeepsDeclarationOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("zeta", 1)
	obj.Set("alpha", NewObject())
	obj.Value("alpha").(*Object).Set("omega", "x")
	obj.Set("beta", []any{"y"})

	out, err := obj.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	want := `{"zeta":1,"alpha":{"omega":"x"},"beta":["y"]}`
	if string(out) != want {
		t.Fatalf("MarshalJSON = %s, want %s", out, want)
	}
}

func TestNilObjectAccessorsAreSafe(t *testing.T) {
	var obj *Object
	if obj.Len() != 0 {
		t.Fatalf("nil Len = %d, want 0", obj.Len())
	}
	if obj.Keys() != nil {
		t.Fatalf("nil Keys = %v, want nil", obj.Keys())
	}
	if _, ok := obj.Get("x"); ok {
		t.Fatalf("nil Get reported presence")
	}
	if obj.Clone() != nil {
		t.Fatalf("nil Clone != nil")
	}
}
