// Package archival declares the archival transfer record types: the general
// inventory, the transfer register and the transfer catalog. Each type ships
// as an embedded descriptor file plus a typed record that converts into an
// export request.
package archival

import (
	"embed"
	"io/fs"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

// Record type names as registered in the definition registry.
const (
	GeneralInventoryType = "general_inventory"
	TransferRegisterType = "transfer_register"
	TransferCatalogType  = "transfer_catalog"
)

//go:embed definitions/*.yaml
var definitionFiles embed.FS

// DefinitionFS exposes the embedded descriptor files.
func DefinitionFS() fs.FS {
	sub, err := fs.Sub(definitionFiles, "definitions")
	if err != nil {
		panic(err)
	}
	return sub
}

// Definitions parses the embedded descriptors.
func Definitions() ([]export.Definition, error) {
	return export.LoadDefinitions(definitionFiles, "definitions/*.yaml")
}

// NewRegistry returns a registry holding the embedded definitions and any
// extra ones; extras must use distinct names.
func NewRegistry(extra ...export.Definition) (*export.DefinitionRegistry, error) {
	defs, err := Definitions()
	if err != nil {
		return nil, err
	}
	reg := export.NewDefinitionRegistry()
	for _, def := range append(defs, extra...) {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Record is implemented by typed archival records.
type Record interface {
	RecordType() string
	Request() export.ExportRequest
}
