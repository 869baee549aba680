package export

import (
	"fmt"
	"io"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

// ParseDefinition decodes a YAML record-type definition, applies defaults
// and validates it.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, NewError(KindValidation, "parse definition YAML", err)
	}
	if err := def.normalize(); err != nil {
		return Definition{}, err
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// ReadDefinition decodes a definition from r.
func ReadDefinition(r io.Reader) (Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Definition{}, NewError(KindValidation, "read definition", err)
	}
	return ParseDefinition(data)
}

// LoadDefinitions parses every file in fsys matching pattern, in name order.
func LoadDefinitions(fsys fs.FS, pattern string) ([]Definition, error) {
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, NewError(KindValidation, "invalid definition pattern "+quote(pattern), err)
	}
	sort.Strings(matches)

	defs := make([]Definition, 0, len(matches))
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, NewError(KindNotFound, fmt.Sprintf("read definition %s", name), err)
		}
		def, err := ParseDefinition(data)
		if err != nil {
			return nil, NewError(KindValidation, fmt.Sprintf("definition file %s", name), err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// MarshalDefinition encodes a definition as YAML.
func MarshalDefinition(def Definition) ([]byte, error) {
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, NewError(KindInternal, "encode definition YAML", err)
	}
	return data, nil
}
