// Package sparql provides shared response parsing for SPARQL JSON
// results, used by the Wikidata and Getty clients.
package sparql

// Response is the standard SPARQL 1.1 JSON results envelope.
type Response struct {
	Head    Head    `json:"head"`
	Results Results `json:"results"`
}

// Head lists the projected variable names.
type Head struct {
	Vars []string `json:"vars"`
}

// Results holds the solution bindings.
type Results struct {
	Bindings []Binding `json:"bindings"`
}

// Binding maps variable name to one bound value.
type Binding map[string]Value

// Value is a single RDF term in a binding.
type Value struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// String returns the bound value for a variable, or "" if unbound.
func (b Binding) String(name string) string {
	if v, ok := b[name]; ok {
		return v.Value
	}
	return ""
}

// Has reports whether the variable is bound in this solution.
func (b Binding) Has(name string) bool {
	_, ok := b[name]
	return ok
}
