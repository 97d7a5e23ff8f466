package vocabulary

// Type is a partition descriptor as published in service metadata and
// attached to every reconciliation result.
type Type struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Descriptor is the static configuration for one queryable partition.
type Descriptor struct {
	Type
	Partition Partition `json:"-" yaml:"-"`
	Index     string    `json:"-" yaml:"index"`
}

// View is the URL template clients use to open a matched record.
type View struct {
	URL string `json:"url" yaml:"url"`
}

// Metadata is the service description returned when a request carries
// no typed queries.
type Metadata struct {
	Name            string `json:"name" yaml:"name"`
	IdentifierSpace string `json:"identifierSpace" yaml:"identifierSpace"`
	SchemaSpace     string `json:"schemaSpace" yaml:"schemaSpace"`
	DefaultTypes    []Type `json:"defaultTypes" yaml:"defaultTypes"`
	View            View   `json:"view" yaml:"view"`
}

// ServiceName is the display name advertised to reconciliation clients.
const ServiceName = "LC Reconciliation Service"

var descriptors = []Descriptor{
	{
		Type:      Type{ID: "Names", Name: "Library of Congress Name Authority File"},
		Partition: Names,
		Index:     "/authorities/names",
	},
	{
		Type:      Type{ID: "Subjects", Name: "Library of Congress Subject Headings"},
		Partition: Subjects,
		Index:     "/authorities/subjects",
	},
	{
		Type:      Type{ID: "LoC", Name: "LCNAF & LCSH"},
		Partition: Unrestricted,
		Index:     "/authorities",
	},
}

// Descriptors returns a copy of the configured partition descriptors in
// their published order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Types returns the published type list.
func Types() []Type {
	types := make([]Type, 0, len(descriptors))
	for _, d := range descriptors {
		types = append(types, d.Type)
	}
	return types
}

// NewMetadata builds the service metadata for an authority base URL such
// as "http://id.loc.gov".
func NewMetadata(authorityURL string) Metadata {
	return Metadata{
		Name:            ServiceName,
		IdentifierSpace: authorityURL + "/authorities",
		SchemaSpace:     authorityURL + "/authorities",
		DefaultTypes:    Types(),
		View:            View{URL: "{{id}}"},
	}
}
