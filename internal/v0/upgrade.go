package v0

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"gtirb/internal/proto"
)

// Visibility codes of the current schema; StorageKind collapses onto these.
const (
	visUndefined = 0
	visDefault   = 1
	visLocal     = 2
	visExtern    = 3
)

// Upgrade translates a version-0 payload into a current-schema payload.
// The translation preserves every node UUID, every symbol-referent
// relationship, and every AuxData payload; new byte intervals are the only
// nodes minted with fresh UUIDs.
func Upgrade(payload []byte) ([]byte, error) {
	old := &IR{}
	if err := old.Unmarshal(payload); err != nil {
		return nil, err
	}

	out := &proto.IR{
		UUID:    old.UUID,
		Version: 1,
		AuxData: upgradeAuxData(old.AuxData),
		CFG:     &proto.CFG{},
	}
	for _, om := range old.Modules {
		nm, err := upgradeModule(om)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", om.Name, err)
		}
		out.Modules = append(out.Modules, nm)
		mergeCFG(out.CFG, om.CFG)
	}
	return out.Marshal(), nil
}

func upgradeModule(om *Module) (*proto.Module, error) {
	nm := &proto.Module{
		UUID:          om.UUID,
		BinaryPath:    om.BinaryPath,
		PreferredAddr: om.PreferredAddr,
		RebaseDelta:   om.RebaseDelta,
		FileFormat:    om.FileFormat,
		ISA:           om.ISA,
		Name:          om.Name,
		AuxData:       upgradeAuxData(om.AuxData),
		EntryPoint:    om.EntryPoint,
	}

	var regions []*Region
	if om.ImageByteMap != nil {
		regions = append(regions, om.ImageByteMap.Regions...)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Address < regions[j].Address })

	// Each section becomes one byte interval per contiguous region
	// overlapping it, carved with the region's bytes. Sections with no
	// backing bytes become a single uninitialized interval so their blocks
	// still have a home.
	for _, os := range om.Sections {
		ns := &proto.Section{UUID: os.UUID, Name: os.Name, Flags: os.Flags}
		secEnd := os.Address + os.Size
		for _, r := range regions {
			regEnd := r.Address + uint64(len(r.Data))
			lo := max(os.Address, r.Address)
			hi := min(secEnd, regEnd)
			if lo >= hi {
				continue
			}
			ns.ByteIntervals = append(ns.ByteIntervals, &proto.ByteInterval{
				UUID:       newUUID(),
				HasAddress: true,
				Address:    lo,
				Size:       hi - lo,
				Contents:   r.Data[lo-r.Address : hi-r.Address],
			})
		}
		if len(ns.ByteIntervals) == 0 {
			ns.ByteIntervals = append(ns.ByteIntervals, &proto.ByteInterval{
				UUID:       newUUID(),
				HasAddress: true,
				Address:    os.Address,
				Size:       os.Size,
			})
		}
		nm.Sections = append(nm.Sections, ns)
	}

	for _, ob := range om.Blocks {
		pb := &proto.Block{
			Code: &proto.CodeBlock{UUID: ob.UUID, Size: ob.Size, DecodeMode: ob.DecodeMode},
		}
		if err := placeBlock(nm, ob.Address, ob.Size, pb); err != nil {
			return nil, fmt.Errorf("code block %x: %w", ob.UUID, err)
		}
	}
	for _, od := range om.DataObjects {
		pb := &proto.Block{
			Data: &proto.DataBlock{UUID: od.UUID, Size: od.Size},
		}
		if err := placeBlock(nm, od.Address, od.Size, pb); err != nil {
			return nil, fmt.Errorf("data object %x: %w", od.UUID, err)
		}
	}
	for _, ns := range nm.Sections {
		for _, bi := range ns.ByteIntervals {
			sort.SliceStable(bi.Blocks, func(i, j int) bool {
				return bi.Blocks[i].Offset < bi.Blocks[j].Offset
			})
		}
	}

	for _, os := range om.Symbols {
		nm.Symbols = append(nm.Symbols, &proto.Symbol{
			UUID:       os.UUID,
			Value:      os.Value,
			Referent:   os.Referent,
			Name:       os.Name,
			AtEnd:      os.AtEnd,
			Visibility: visibilityFor(os.StorageKind),
			HasValue:   os.HasValue,
		})
	}
	for _, op := range om.Proxies {
		nm.Proxies = append(nm.Proxies, &proto.ProxyBlock{UUID: op.UUID})
	}
	return nm, nil
}

// placeBlock nests a flat-table block into the interval containing its
// absolute address extent.
func placeBlock(nm *proto.Module, addr, size uint64, pb *proto.Block) error {
	for _, ns := range nm.Sections {
		for _, bi := range ns.ByteIntervals {
			if addr >= bi.Address && addr+size <= bi.Address+bi.Size {
				pb.Offset = addr - bi.Address
				bi.Blocks = append(bi.Blocks, pb)
				return nil
			}
		}
	}
	return fmt.Errorf("address 0x%x with size %d lies in no section interval", addr, size)
}

func visibilityFor(storageKind uint32) uint32 {
	switch storageKind {
	case StorageNormal:
		return visDefault
	case StorageStatic, StorageLocal:
		return visLocal
	case StorageExtern:
		return visExtern
	default:
		return visUndefined
	}
}

// mergeCFG lifts a module-level v0 CFG into the IR-level graph, zipping
// the parallel label arrays into per-edge label records. Arrays shorter
// than the edge list default to unconditional, indirect, branch.
func mergeCFG(dst *proto.CFG, src *CFG) {
	if src == nil {
		return
	}
	dst.Vertices = append(dst.Vertices, src.Vertices...)
	for i, e := range src.Edges {
		label := &proto.EdgeLabel{}
		if i < len(src.Types) {
			label.Type = src.Types[i]
		}
		if i < len(src.Conditionals) {
			label.Conditional = src.Conditionals[i] != 0
		}
		if i < len(src.Directs) {
			label.Direct = src.Directs[i] != 0
		}
		dst.Edges = append(dst.Edges, &proto.Edge{Source: e.Source, Target: e.Target, Label: label})
	}
}

func upgradeAuxData(entries []*AuxDataEntry) []*proto.AuxDataEntry {
	var out []*proto.AuxDataEntry
	for _, e := range entries {
		ne := &proto.AuxDataEntry{Key: e.Key}
		if e.Value != nil {
			ne.Value = &proto.AuxData{
				TypeName: rewriteLegacyType(e.Value.TypeName),
				Data:     e.Value.Data,
			}
		}
		out = append(out, ne)
	}
	return out
}

// legacyTypeNames maps version-0 type spellings to the canonical grammar.
var legacyTypeNames = map[string]string{
	"uint8-t": "uint8", "uint16-t": "uint16", "uint32-t": "uint32", "uint64-t": "uint64",
	"int8-t": "int8", "int16-t": "int16", "int32-t": "int32", "int64-t": "int64",
}

// rewriteLegacyType replaces legacy identifiers inside a type expression,
// leaving structure and unknown names untouched.
func rewriteLegacyType(s string) string {
	var out []byte
	for i := 0; i < len(s); {
		if !identByte(s[i]) {
			out = append(out, s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && identByte(s[j]) {
			j++
		}
		tok := s[i:j]
		if canon, ok := legacyTypeNames[tok]; ok {
			tok = canon
		}
		out = append(out, tok...)
		i = j
	}
	return string(out)
}

func identByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func newUUID() []byte {
	id := uuid.New()
	return id[:]
}
