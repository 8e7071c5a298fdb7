package gtirb

// Sanctioned AuxData schemata. These are the well-known tables tools agree
// on; registering them here means Set/AuxDataValue work on them without
// per-program setup. Unknown names still pass through losslessly.
var sanctionedSchemata = map[string]string{
	"functionBlocks":   "mapping<UUID,set<UUID>>",
	"functionEntries":  "mapping<UUID,set<UUID>>",
	"functionNames":    "mapping<UUID,UUID>",
	"types":            "mapping<UUID,string>", // opaque source-language type spellings
	"alignment":        "mapping<UUID,uint64>",
	"comments":         "mapping<Offset,string>",
	"symbolForwarding": "mapping<UUID,UUID>",
	"padding":          "mapping<Offset,uint64>",
	"elfDynamicInit":   "UUID",
	"elfDynamicFini":   "UUID",
	"profile":          "mapping<Offset,uint64>",
}

func init() {
	for name, expr := range sanctionedSchemata {
		if err := RegisterAuxDataType(name, expr); err != nil {
			panic(err)
		}
	}
}
