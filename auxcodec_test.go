package gtirb

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func mustType(t *testing.T, expr string) *AuxType {
	t.Helper()
	typ, err := ParseAuxType(expr)
	if err != nil {
		t.Fatal(err)
	}
	return typ
}

func TestEncodeDecodeIdempotence(t *testing.T) {
	id1 := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	id2 := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	cases := []struct {
		expr  string
		value any
	}{
		{"bool", true},
		{"bool", false},
		{"int8", int8(-5)},
		{"uint8", uint8(200)},
		{"int16", int16(-1000)},
		{"uint16", uint16(50000)},
		{"int32", int32(-70000)},
		{"uint32", uint32(3000000000)},
		{"int64", int64(-1)},
		{"uint64", uint64(1) << 63},
		{"float", float32(1.5)},
		{"double", float64(-2.25)},
		{"string", "hello"},
		{"string", ""},
		{"UUID", id1},
		{"Addr", Addr(0x1000)},
		{"Offset", Offset{ElementID: id1, Displacement: 8}},
		{"sequence<uint64>", []any{uint64(1), uint64(2), uint64(1)}},
		{"set<uint64>", []any{uint64(1), uint64(2), uint64(3)}},
		{"mapping<UUID,uint64>", map[any]any{id1: uint64(8), id2: uint64(16)}},
		{"tuple<uint8,string>", []any{uint8(1), "x"}},
		{"variant<uint64,string>", Variant{Tag: 1, Value: "alt"}},
		{"variant<uint64,string>", Variant{Tag: 0, Value: uint64(9)}},
		{"mapping<Offset,string>", map[any]any{
			Offset{ElementID: id1, Displacement: 4}: "a comment",
		}},
		{"mapping<UUID,set<UUID>>", map[any]any{id1: []any{id2}}},
	}

	for _, tc := range cases {
		typ := mustType(t, tc.expr)
		enc, err := EncodeAuxValue(typ, tc.value)
		if err != nil {
			t.Fatalf("encode %s: %v", tc.expr, err)
		}
		dec, err := DecodeAuxValue(typ, enc)
		if err != nil {
			t.Fatalf("decode %s: %v", tc.expr, err)
		}
		if diff := cmp.Diff(tc.value, dec); diff != "" {
			t.Errorf("%s: decode(encode(v)) != v (-want +got):\n%s", tc.expr, diff)
		}
		again, err := EncodeAuxValue(typ, dec)
		if err != nil {
			t.Fatalf("re-encode %s: %v", tc.expr, err)
		}
		if !bytes.Equal(enc, again) {
			t.Errorf("%s: encode(decode(bytes)) != bytes", tc.expr)
		}
	}
}

func TestSetElementsSortedOnWire(t *testing.T) {
	typ := mustType(t, "set<uint8>")
	enc, err := EncodeAuxValue(typ, []any{uint8(3), uint8(1), uint8(2)})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{3, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3}
	if !bytes.Equal(enc, want) {
		t.Errorf("encoding = %x, want %x", enc, want)
	}
}

func TestEncodeRejectsDuplicates(t *testing.T) {
	if _, err := EncodeAuxValue(mustType(t, "set<uint8>"), []any{uint8(1), uint8(1)}); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("duplicate set element: got %v", err)
	}
}

func TestDecodeStrictness(t *testing.T) {
	u64 := mustType(t, "uint64")
	good, _ := EncodeAuxValue(u64, uint64(7))

	if _, err := DecodeAuxValue(u64, append(good, 0xFF)); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("trailing bytes: got %v", err)
	}
	if _, err := DecodeAuxValue(u64, good[:4]); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("missing bytes: got %v", err)
	}

	boolT := mustType(t, "bool")
	if _, err := DecodeAuxValue(boolT, []byte{2}); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("bad bool byte: got %v", err)
	}

	variant := mustType(t, "variant<uint64,string>")
	bad := make([]byte, 8)
	bad[0] = 5 // tag 5, only two alternatives
	if _, err := DecodeAuxValue(variant, append(bad, make([]byte, 8)...)); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("variant tag out of range: got %v", err)
	}

	set := mustType(t, "set<uint8>")
	if _, err := DecodeAuxValue(set, []byte{2, 0, 0, 0, 0, 0, 0, 0, 9, 9}); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("duplicate set element on decode: got %v", err)
	}

	mapping := mustType(t, "mapping<uint8,uint8>")
	if _, err := DecodeAuxValue(mapping, []byte{2, 0, 0, 0, 0, 0, 0, 0, 1, 10, 1, 20}); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("duplicate mapping key on decode: got %v", err)
	}

	if _, err := DecodeAuxValue(set, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("oversized count: got %v", err)
	}
}

func TestEncodeTypeMismatch(t *testing.T) {
	if _, err := EncodeAuxValue(mustType(t, "uint64"), "not a number"); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("mismatched value: got %v", err)
	}
	if _, err := EncodeAuxValue(mustType(t, "tuple<uint8,uint8>"), []any{uint8(1)}); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("short tuple: got %v", err)
	}
}

func TestContainerSetGet(t *testing.T) {
	var c AuxDataContainer
	c.init()

	id := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	if err := c.SetAuxData("alignment", map[any]any{id: uint64(8)}); err != nil {
		t.Fatal(err)
	}
	v, err := c.AuxDataValue("alignment")
	if err != nil {
		t.Fatal(err)
	}
	m, ok := v.(map[any]any)
	if !ok {
		t.Fatalf("value has type %T", v)
	}
	if m[id] != uint64(8) {
		t.Errorf("alignment[%s] = %v", id, m[id])
	}

	typeName, raw, ok := c.RawAuxData("alignment")
	if !ok || typeName != "mapping<UUID,uint64>" || len(raw) == 0 {
		t.Errorf("RawAuxData = %q, %d bytes, %v", typeName, len(raw), ok)
	}

	if err := c.SetAuxData("no-such-schema", 1); !errors.Is(err, ErrUsage) {
		t.Errorf("unregistered schema: got %v", err)
	}

	if v, err := c.AuxDataValue("absent"); v != nil || err != nil {
		t.Errorf("absent table = %v, %v", v, err)
	}

	if got := c.RemoveAuxData("alignment"); got != Accepted {
		t.Errorf("remove = %v", got)
	}
	if got := c.RemoveAuxData("alignment"); got != NoChange {
		t.Errorf("second remove = %v", got)
	}
}

func TestUnknownSchemaPassThrough(t *testing.T) {
	var c AuxDataContainer
	c.init()
	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	c.setRawAuxData("mystery", "weird<type", raw)

	typeName, got, ok := c.RawAuxData("mystery")
	if !ok || typeName != "weird<type" || !bytes.Equal(got, raw) {
		t.Errorf("pass-through lost data: %q %x %v", typeName, got, ok)
	}
	if _, err := c.AuxDataValue("mystery"); !errors.Is(err, ErrAuxDataType) {
		t.Errorf("decoding unparseable type: got %v", err)
	}
}
