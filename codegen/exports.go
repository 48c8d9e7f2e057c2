package codegen

import (
	"encoding/json"

	"github.com/llir/llvm/ir/constant"
)

// ExportsSymbol names the global that carries a library's exports table.
const ExportsSymbol = "__adan_exports"

// Exports describes the programs a compiled library provides.
type Exports struct {
	Module    string            `json:"module"`
	Functions map[string]string `json:"functions"`
}

// Exports lists the root file's programs with their source signatures.
func (c *Context) Exports() Exports {
	e := Exports{Module: c.name, Functions: make(map[string]string)}
	for name, fn := range c.modules[""].Functions {
		if source, ok := fn.(*SourceFunction); ok {
			e.Functions[symbolName("", name)] = source.Decl.Signature()
		}
	}
	return e
}

func (c *Context) emitExports() {
	data, err := json.Marshal(c.Exports())
	if err != nil {
		panic(err)
	}

	g := c.Module.NewGlobalDef(ExportsSymbol, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

// ParseExports decodes an exports table read back from a compiled library.
func ParseExports(data string) (e Exports, err error) {
	err = json.Unmarshal([]byte(data), &e)
	return
}
