package gtirb

import (
	"errors"
	"testing"
)

func TestParsePrintIdempotence(t *testing.T) {
	exprs := []string{
		"bool",
		"uint64",
		"int8",
		"float",
		"double",
		"string",
		"UUID",
		"Addr",
		"Offset",
		"sequence<uint64>",
		"set<UUID>",
		"mapping<UUID,uint64>",
		"mapping<Offset,string>",
		"tuple<uint8,string,Addr>",
		"variant<uint64,string>",
		"mapping<UUID,set<UUID>>",
		"mapping<string,mapping<uint16,string>>",
		"tuple<mapping<uint16,tuple<sequence<string>,uint16>>,mapping<string,mapping<uint16,string>>,mapping<UUID,tuple<uint16,bool>>>",
	}
	for _, expr := range exprs {
		parsed, err := ParseAuxType(expr)
		if err != nil {
			t.Fatalf("parse %q: %v", expr, err)
		}
		if got := parsed.String(); got != expr {
			t.Errorf("print(parse(%q)) = %q", expr, got)
		}
		again, err := ParseAuxType(parsed.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", parsed, err)
		}
		if !parsed.Equal(again) {
			t.Errorf("parse(print(T)) != T for %q", expr)
		}
	}
}

func TestParseTolerantOfSpaces(t *testing.T) {
	parsed, err := ParseAuxType("mapping< UUID , uint64 >")
	if err != nil {
		t.Fatal(err)
	}
	if got := parsed.String(); got != "mapping<UUID,uint64>" {
		t.Errorf("canonical form = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"qword",
		"sequence",
		"sequence<uint64,uint64>",
		"mapping<uint64>",
		"uint64<bool>",
		"sequence<uint64",
		"sequence<uint64>x",
		"tuple<>",
	}
	for _, expr := range bad {
		if _, err := ParseAuxType(expr); err == nil {
			t.Errorf("parse %q: expected error", expr)
		} else if !errors.Is(err, ErrAuxDataType) {
			t.Errorf("parse %q: error %v is not ErrAuxDataType", expr, err)
		}
	}
}

func TestTypeEqual(t *testing.T) {
	a, _ := ParseAuxType("mapping<UUID,uint64>")
	b, _ := ParseAuxType("mapping<UUID,uint64>")
	c, _ := ParseAuxType("mapping<UUID,uint32>")
	if !a.Equal(b) {
		t.Error("identical trees compare unequal")
	}
	if a.Equal(c) {
		t.Error("different trees compare equal")
	}
}
