package beans

// SchemaElementProperties are shared by schema types and schema attributes.
type SchemaElementProperties struct {
	ReferenceableProperties `yaml:",inline"`
	DisplayName             string `yaml:"displayName,omitempty"`
	Description             string `yaml:"description,omitempty"`
	IsDeprecated            bool   `yaml:"isDeprecated,omitempty"`
}

type SchemaTypeProperties struct {
	SchemaElementProperties `yaml:",inline"`
	VersionNumber           string `yaml:"versionNumber,omitempty"`
	Author                  string `yaml:"author,omitempty"`
	Usage                   string `yaml:"usage,omitempty"`
	EncodingStandard        string `yaml:"encodingStandard,omitempty"`
	Namespace               string `yaml:"namespace,omitempty"`
}

type SchemaType struct {
	ElementHeader `yaml:"header"`
	Properties    SchemaTypeProperties `yaml:"properties"`
}

type SchemaAttributeProperties struct {
	SchemaElementProperties `yaml:",inline"`
	Position                int               `yaml:"position"`
	MinCardinality          int               `yaml:"minCardinality"`
	MaxCardinality          int               `yaml:"maxCardinality"`
	AllowsDuplicateValues   bool              `yaml:"allowsDuplicateValues,omitempty"`
	OrderedValues           bool              `yaml:"orderedValues,omitempty"`
	DefaultValueOverride    string            `yaml:"defaultValueOverride,omitempty"`
	SortOrder               DataItemSortOrder `yaml:"sortOrder"`
	MinimumLength           int               `yaml:"minimumLength,omitempty"`
	Length                  int               `yaml:"length,omitempty"`
	Precision               int               `yaml:"precision,omitempty"`
	IsNullable              bool              `yaml:"isNullable,omitempty"`
	NativeClass             string            `yaml:"nativeClass,omitempty"`
	Aliases                 []string          `yaml:"aliases,omitempty"`
}

type SchemaAttribute struct {
	ElementHeader `yaml:"header"`
	Properties    SchemaAttributeProperties `yaml:"properties"`
}

type PrimaryKey struct {
	Name       string     `yaml:"name,omitempty"`
	KeyPattern KeyPattern `yaml:"keyPattern"`
}

// ForeignKeyReference is a foreign key of a relational column, pointing to the
// column it references.
type ForeignKeyReference struct {
	RelationshipGUID              string `yaml:"relationshipGuid"`
	ReferencedColumnGUID          string `yaml:"referencedColumnGuid"`
	ReferencedColumnQualifiedName string `yaml:"referencedColumnQualifiedName,omitempty"`
	Name                          string `yaml:"name,omitempty"`
	Description                   string `yaml:"description,omitempty"`
	Confidence                    int    `yaml:"confidence,omitempty"`
	Steward                       string `yaml:"steward,omitempty"`
	Source                        string `yaml:"source,omitempty"`
}

// RelationalColumn is a column of a relational table.
// PrimaryKey is derived from the PrimaryKey classification,
// ForeignKeys from the ForeignKey relationships in which the column is the referencing end.
type RelationalColumn struct {
	ElementHeader `yaml:"header"`
	Properties    SchemaAttributeProperties `yaml:"properties"`
	PrimaryKey    *PrimaryKey               `yaml:"primaryKey,omitempty"`
	ForeignKeys   []ForeignKeyReference     `yaml:"foreignKeys,omitempty"`
}

type APIOperationProperties struct {
	SchemaTypeProperties `yaml:",inline"`
	Path                 string `yaml:"path,omitempty"`
	Command              string `yaml:"command,omitempty"`
}

type APIOperation struct {
	ElementHeader `yaml:"header"`
	Properties    APIOperationProperties `yaml:"properties"`
}

type APIParameterListProperties struct {
	SchemaTypeProperties `yaml:",inline"`
	Required             bool `yaml:"required,omitempty"`
}

// APIParameterList is the header, request or response of an API operation.
// ParameterListType and ParameterCount are derived from relationships.
type APIParameterList struct {
	ElementHeader     `yaml:"header"`
	Properties        APIParameterListProperties `yaml:"properties"`
	ParameterListType APIParameterListType       `yaml:"parameterListType,omitempty"`
	ParameterCount    int                        `yaml:"parameterCount"`
}
