package whoisrdap

import "strings"

// vcardProp is one [name, params, valueType, value] jCard quad, walked
// without assuming a closed set of Go types for value — per spec.md §9,
// jCard arrays are heterogeneously typed (strings, maps, slices).
type vcardProp struct {
	Name   string
	Params map[string]interface{}
	Value  interface{}
}

// parseVCardArray walks a decoded `vcardArray[1]` (a list of [name, params,
// type, value] quads) into a flat list of vcardProp.
func parseVCardArray(raw interface{}) []vcardProp {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var props []vcardProp
	for _, item := range items {
		quad, ok := item.([]interface{})
		if !ok || len(quad) < 4 {
			continue
		}
		name, _ := quad[0].(string)
		params, _ := quad[1].(map[string]interface{})
		props = append(props, vcardProp{
			Name:   strings.ToLower(name),
			Params: params,
			Value:  quad[3],
		})
	}
	return props
}

func findProp(props []vcardProp, name string) *vcardProp {
	for i := range props {
		if props[i].Name == name {
			return &props[i]
		}
	}
	return nil
}

func findAllProps(props []vcardProp, name string) []vcardProp {
	var out []vcardProp
	for _, p := range props {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// stringValue extracts a plain string from a jCard value when one is
// present, else "".
func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

// paramTypes normalizes a vCard TYPE param, which may appear as a string
// or as an array of strings.
func paramTypes(params map[string]interface{}) []string {
	if params == nil {
		return nil
	}
	raw, ok := params["type"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return []string{strings.ToLower(v)}
	case []interface{}:
		var out []string
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, strings.ToLower(s))
			}
		}
		return out
	}
	return nil
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// extractContact builds a Contact from a vCard property list per spec.md
// §4.7: fn, org, email, tel (excluding fax-typed), fax (tel type=fax),
// adr (flattened, country = component index 6).
func extractContact(props []vcardProp) *vcardContactFields {
	c := &vcardContactFields{}

	if p := findProp(props, "fn"); p != nil {
		c.Name = emptyToNil(stringValue(p.Value))
	}
	if p := findProp(props, "org"); p != nil {
		c.Organization = emptyToNil(orgString(p.Value))
	}
	if p := findProp(props, "email"); p != nil {
		c.Email = emptyToNil(stringValue(p.Value))
	}

	for _, p := range findAllProps(props, "tel") {
		types := paramTypes(p.Params)
		if hasType(types, "fax") {
			c.Fax = emptyToNil(stringValue(p.Value))
		} else if c.Phone == nil {
			c.Phone = emptyToNil(stringValue(p.Value))
		}
	}

	if p := findProp(props, "adr"); p != nil {
		addr, country := flattenAddress(p.Value)
		c.Address = emptyToNil(addr)
		c.Country = emptyToNil(country)
	}

	return c
}

// vcardContactFields mirrors model.Contact but with *string fields so
// emptiness can be distinguished from "explicitly present but blank."
type vcardContactFields struct {
	Name         *string
	Organization *string
	Email        *string
	Phone        *string
	Fax          *string
	Address      *string
	Country      *string
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orgString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		var parts []string
		for _, e := range val {
			if s, ok := e.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// flattenAddress joins non-empty ADR components into a comma-separated
// address string; the component at index 6 (country, per RFC 6350's ADR
// structured value) is also returned separately.
func flattenAddress(v interface{}) (address string, country string) {
	parts, ok := v.([]interface{})
	if !ok {
		return "", ""
	}
	var nonEmpty []string
	for i, p := range parts {
		s := stringValue(p)
		if s == "" {
			continue
		}
		nonEmpty = append(nonEmpty, s)
		if i == 6 {
			country = s
		}
	}
	return strings.Join(nonEmpty, ", "), country
}
