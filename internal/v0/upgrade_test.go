package v0

import (
	"bytes"
	"testing"

	"gtirb/internal/proto"
)

func TestRewriteLegacyType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"uint64-t", "uint64"},
		{"mapping<UUID,uint64-t>", "mapping<UUID,uint64>"},
		{"sequence<int8-t>", "sequence<int8>"},
		{"mapping<uint32-t,sequence<uint64-t>>", "mapping<uint32,sequence<uint64>>"},
		{"mapping<UUID,uint64>", "mapping<UUID,uint64>"},
		{"somename-t", "somename-t"}, // unknown names stay untouched
		{"string", "string"},
	}
	for _, tc := range tests {
		if got := rewriteLegacyType(tc.in); got != tc.want {
			t.Errorf("rewriteLegacyType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestVisibilityMapping(t *testing.T) {
	tests := []struct {
		kind uint32
		want uint32
	}{
		{StorageUndefined, visUndefined},
		{StorageNormal, visDefault},
		{StorageStatic, visLocal},
		{StorageLocal, visLocal},
		{StorageExtern, visExtern},
	}
	for _, tc := range tests {
		if got := visibilityFor(tc.kind); got != tc.want {
			t.Errorf("visibilityFor(%d) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestUpgradeCarvesRegionsPerSection(t *testing.T) {
	old := &IR{
		UUID: make([]byte, 16),
		Modules: []*Module{{
			UUID: make([]byte, 16),
			Name: "m",
			ImageByteMap: &ImageByteMap{Regions: []*Region{
				{Address: 0x1000, Data: []byte{1, 2, 3, 4}},
				{Address: 0x2000, Data: []byte{5, 6}},
			}},
			Sections: []*Section{
				// Spans both regions; becomes two intervals.
				{UUID: make([]byte, 16), Name: ".all", Address: 0x1000, Size: 0x1002},
				// Backed by nothing; becomes one uninitialized interval.
				{UUID: make([]byte, 16), Name: ".bss", Address: 0x9000, Size: 0x10},
			},
		}},
	}
	out, err := Upgrade(old.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	cur := &proto.IR{}
	if err := cur.Unmarshal(out); err != nil {
		t.Fatal(err)
	}

	secs := cur.Modules[0].Sections
	if len(secs) != 2 {
		t.Fatalf("sections = %d", len(secs))
	}
	all := secs[0]
	if len(all.ByteIntervals) != 2 {
		t.Fatalf(".all intervals = %d", len(all.ByteIntervals))
	}
	if all.ByteIntervals[0].Address != 0x1000 || !bytes.Equal(all.ByteIntervals[0].Contents, []byte{1, 2, 3, 4}) {
		t.Errorf("first interval = 0x%x %x", all.ByteIntervals[0].Address, all.ByteIntervals[0].Contents)
	}
	if all.ByteIntervals[1].Address != 0x2000 || !bytes.Equal(all.ByteIntervals[1].Contents, []byte{5, 6}) {
		t.Errorf("second interval = 0x%x %x", all.ByteIntervals[1].Address, all.ByteIntervals[1].Contents)
	}

	bss := secs[1]
	if len(bss.ByteIntervals) != 1 {
		t.Fatalf(".bss intervals = %d", len(bss.ByteIntervals))
	}
	bi := bss.ByteIntervals[0]
	if bi.Address != 0x9000 || bi.Size != 0x10 || len(bi.Contents) != 0 {
		t.Errorf(".bss interval = 0x%x size %d, %d content bytes", bi.Address, bi.Size, len(bi.Contents))
	}
	if !bi.HasAddress {
		t.Error(".bss interval lost its address")
	}
}

func TestUpgradeRejectsHomelessBlock(t *testing.T) {
	old := &IR{
		UUID: make([]byte, 16),
		Modules: []*Module{{
			UUID: make([]byte, 16),
			Name: "m",
			Sections: []*Section{
				{UUID: make([]byte, 16), Name: ".text", Address: 0x1000, Size: 8},
			},
			Blocks: []*Block{
				{UUID: make([]byte, 16), Address: 0x5000, Size: 4},
			},
		}},
	}
	if _, err := Upgrade(old.Marshal()); err == nil {
		t.Fatal("block outside every section should fail the upgrade")
	}
}

func TestUpgradeZipsShortLabelArrays(t *testing.T) {
	src := make([]byte, 16)
	tgt := make([]byte, 16)
	tgt[15] = 1
	old := &IR{
		UUID: make([]byte, 16),
		Modules: []*Module{{
			UUID: make([]byte, 16),
			Name: "m",
			CFG: &CFG{
				Edges: []*Edge{{Source: src, Target: tgt}, {Source: tgt, Target: src}},
				Types: []uint32{2}, // second edge has no recorded labels
			},
		}},
	}
	out, err := Upgrade(old.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	cur := &proto.IR{}
	if err := cur.Unmarshal(out); err != nil {
		t.Fatal(err)
	}
	if len(cur.CFG.Edges) != 2 {
		t.Fatalf("edges = %d", len(cur.CFG.Edges))
	}
	if cur.CFG.Edges[0].Label.Type != 2 {
		t.Errorf("first label type = %d", cur.CFG.Edges[0].Label.Type)
	}
	if cur.CFG.Edges[1].Label.Type != 0 {
		t.Errorf("defaulted label type = %d", cur.CFG.Edges[1].Label.Type)
	}
}
