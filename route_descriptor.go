package hashroute

import (
	"encoding/json"
)

// RouteDescriptor describes a route registered through a Router. Descriptors
// are listed by Router.RouteDescriptors in priority order, which is useful
// for debugging route overrides and for generating links on other systems.
type RouteDescriptor struct {
	Pattern *Pattern
	Name    string
}

// MarshalJSON returns the JSON representation of the route descriptor.
func (r *RouteDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pattern string
		Name    string
	}{
		Pattern: r.Pattern.String(),
		Name:    r.Name,
	})
}

// UnmarshalJSON parses the JSON representation of the route descriptor.
func (r *RouteDescriptor) UnmarshalJSON(data []byte) error {
	fromJSONStruct := struct {
		Pattern string
		Name    string
	}{}
	if err := json.Unmarshal(data, &fromJSONStruct); err != nil {
		return err
	}

	pattern, err := NewPattern(fromJSONStruct.Pattern)
	if err != nil {
		return err
	}

	r.Pattern = pattern
	r.Name = fromJSONStruct.Name

	return nil
}
