package ir

import "fmt"

// ForeignFunctions is the runtime's foreign-function table. Every
// CallForeign emitted into a module must name one of these.
var ForeignFunctions = map[string]bool{
	"prn":             true,
	"prs":             true,
	"prh":             true,
	"prc":             true,
	"prend":           true,
	"getch":           true,
	"print_string":    true,
	"read_string":     true,
	"float_to_int":    true,
	"int_to_float":    true,
	"string_to_int":   true,
	"string_to_float": true,
	"int_to_string":   true,
	"float_to_string": true,
}

// Validate checks the module's structural invariants: every Call resolves
// to a function defined in the module, every CallForeign names an entry of
// the foreign-function table, and stack frames balance within each
// function body. The entry may abandon its frame on termination.
func (m *Module) Validate() error {
	defined := make(map[string]bool, len(m.Functions))
	for i := range m.Functions {
		name := m.Functions[i].Name
		if defined[name] {
			return fmt.Errorf("function %q defined twice", name)
		}
		defined[name] = true
	}

	for i := range m.Functions {
		if err := validateBody(m.Functions[i].Name, m.Functions[i].Body, defined, false); err != nil {
			return err
		}
	}
	return validateBody("entry", m.Entry.Body, defined, true)
}

func validateBody(owner string, body []Statement, defined map[string]bool, isEntry bool) error {
	frames := 0
	for _, stmt := range body {
		switch s := stmt.(type) {
		case Call:
			if !defined[s.Name] {
				return fmt.Errorf("%s: call to undefined function %q", owner, s.Name)
			}
		case CallForeign:
			if !ForeignFunctions[s.Name] {
				return fmt.Errorf("%s: call to unknown foreign function %q", owner, s.Name)
			}
		case EstablishStackFrame:
			frames++
		case EndStackFrame:
			frames--
			if frames < 0 {
				return fmt.Errorf("%s: EndStackFrame without matching EstablishStackFrame", owner)
			}
		}
	}
	if frames != 0 && !isEntry {
		return fmt.Errorf("%s: %d unbalanced stack frames", owner, frames)
	}
	return nil
}
