package core

import (
	"errors"
	"testing"
)

func testFormat(key string, contentTypes ...string) FormatDefinition {
	return FormatDefinition{
		Info: FormatInfo{Key: key, ContentTypes: contentTypes},
		New: func(policy *Policy) Decoder {
			return NewBase(policy)
		},
	}
}

func TestRegistry(t *testing.T) {
	Clear()
	defer Clear()

	Register(testFormat("TSV", "text/tab-separated-values"))
	Register(testFormat("alpha"))

	if FormatCount() != 2 {
		t.Fatalf("FormatCount() = %d, want 2", FormatCount())
	}

	def, ok := Get("tsv")
	if !ok {
		t.Fatal("Get(tsv) not found")
	}
	if def.Info.Key != "tsv" {
		t.Errorf("Key = %q, want lowercased %q", def.Info.Key, "tsv")
	}
	if def.Info.Label != "TSV" {
		t.Errorf("Label = %q, want default %q", def.Info.Label, "TSV")
	}

	all := All()
	if len(all) != 2 || all[0].Info.Key != "alpha" || all[1].Info.Key != "tsv" {
		t.Errorf("All() not sorted by key: %+v", all)
	}

	if _, ok := GetByContentType("text/tab-separated-values; charset=utf-8"); !ok {
		t.Error("GetByContentType should ignore parameters")
	}
	if _, ok := GetByContentType("application/pdf"); ok {
		t.Error("GetByContentType(application/pdf) should not match")
	}
	if _, ok := GetByContentType(""); ok {
		t.Error("GetByContentType(\"\") should not match")
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	Clear()
	defer Clear()

	Register(testFormat("csv"))

	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate key should panic")
		}
	}()
	Register(testFormat("CSV"))
}

func TestRegister_MissingFactoryPanics(t *testing.T) {
	Clear()
	defer Clear()

	defer func() {
		if recover() == nil {
			t.Error("registering without a factory should panic")
		}
	}()
	Register(FormatDefinition{Info: FormatInfo{Key: "x"}})
}

func TestNewDecoder(t *testing.T) {
	Clear()
	defer Clear()

	Register(testFormat("base"))

	dec, err := NewDecoder("base", &Policy{})
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	if dec == nil {
		t.Fatal("NewDecoder() returned nil decoder")
	}

	_, err = NewDecoder("nope", &Policy{})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("NewDecoder(nope) error = %v, want ErrUnknownFormat", err)
	}
}
