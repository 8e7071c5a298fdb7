package v0

import "google.golang.org/protobuf/encoding/protowire"

// Marshal support for version-0 messages. The library never writes
// version-0 files; this exists so tests can fabricate them.

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	return appendBytes(b, num, []byte(v))
}

func appendMsg(b []byte, num protowire.Number, sub []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

func (m *IR) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	for _, x := range m.Modules {
		b = appendMsg(b, 2, x.Marshal())
	}
	for _, x := range m.AuxData {
		b = appendMsg(b, 3, x.Marshal())
	}
	b = appendUint(b, 4, uint64(m.Version))
	return b
}

func (m *AuxDataEntry) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Key)
	if m.Value != nil {
		b = appendMsg(b, 2, m.Value.Marshal())
	}
	return b
}

func (m *AuxData) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.TypeName)
	b = appendBytes(b, 2, m.Data)
	return b
}

func (m *Module) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendString(b, 2, m.BinaryPath)
	b = appendUint(b, 3, m.PreferredAddr)
	b = appendUint(b, 4, uint64(m.RebaseDelta))
	b = appendUint(b, 5, uint64(m.FileFormat))
	b = appendUint(b, 6, uint64(m.ISA))
	b = appendString(b, 7, m.Name)
	if m.ImageByteMap != nil {
		b = appendMsg(b, 8, m.ImageByteMap.Marshal())
	}
	for _, x := range m.Sections {
		b = appendMsg(b, 9, x.Marshal())
	}
	for _, x := range m.Symbols {
		b = appendMsg(b, 10, x.Marshal())
	}
	for _, x := range m.Blocks {
		b = appendMsg(b, 11, x.Marshal())
	}
	for _, x := range m.DataObjects {
		b = appendMsg(b, 12, x.Marshal())
	}
	for _, x := range m.Proxies {
		b = appendMsg(b, 13, x.Marshal())
	}
	if m.CFG != nil {
		b = appendMsg(b, 14, m.CFG.Marshal())
	}
	for _, x := range m.AuxData {
		b = appendMsg(b, 15, x.Marshal())
	}
	b = appendBytes(b, 16, m.EntryPoint)
	return b
}

func (m *ImageByteMap) Marshal() []byte {
	var b []byte
	for _, x := range m.Regions {
		b = appendMsg(b, 1, x.Marshal())
	}
	return b
}

func (m *Region) Marshal() []byte {
	var b []byte
	b = appendUint(b, 1, m.Address)
	b = appendBytes(b, 2, m.Data)
	return b
}

func (m *Section) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendString(b, 2, m.Name)
	b = appendUint(b, 3, m.Address)
	b = appendUint(b, 4, m.Size)
	for _, f := range m.Flags {
		b = protowire.AppendTag(b, 5, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f))
	}
	return b
}

func (m *Symbol) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendUint(b, 2, m.Value)
	b = appendBytes(b, 3, m.Referent)
	b = appendString(b, 4, m.Name)
	b = appendUint(b, 5, uint64(m.StorageKind))
	b = appendBool(b, 6, m.AtEnd)
	b = appendBool(b, 7, m.HasValue)
	return b
}

func (m *Block) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendUint(b, 2, m.Address)
	b = appendUint(b, 3, m.Size)
	b = appendUint(b, 4, uint64(m.DecodeMode))
	return b
}

func (m *DataObject) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendUint(b, 2, m.Address)
	b = appendUint(b, 3, m.Size)
	return b
}

func (m *ProxyBlock) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	return b
}

func (m *CFG) Marshal() []byte {
	var b []byte
	for _, v := range m.Vertices {
		b = appendBytes(b, 1, v)
	}
	for _, e := range m.Edges {
		b = appendMsg(b, 2, e.Marshal())
	}
	for _, v := range m.Types {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(v))
	}
	for _, v := range m.Conditionals {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(v))
	}
	for _, v := range m.Directs {
		b = protowire.AppendTag(b, 5, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(v))
	}
	return b
}

func (m *Edge) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.Source)
	b = appendBytes(b, 2, m.Target)
	return b
}
