package beans

type GlossaryTermProperties struct {
	ReferenceableProperties  `yaml:",inline"`
	DisplayName              string `yaml:"displayName,omitempty"`
	Summary                  string `yaml:"summary,omitempty"`
	Description              string `yaml:"description,omitempty"`
	Examples                 string `yaml:"examples,omitempty"`
	Abbreviation             string `yaml:"abbreviation,omitempty"`
	Usage                    string `yaml:"usage,omitempty"`
	PublishVersionIdentifier string `yaml:"publishVersionIdentifier,omitempty"`
}

type GlossaryTerm struct {
	ElementHeader `yaml:"header"`
	Properties    GlossaryTermProperties `yaml:"properties"`
}

type ValidValueProperties struct {
	ReferenceableProperties `yaml:",inline"`
	DisplayName             string `yaml:"displayName,omitempty"`
	Description             string `yaml:"description,omitempty"`
	Usage                   string `yaml:"usage,omitempty"`
	Scope                   string `yaml:"scope,omitempty"`
	PreferredValue          string `yaml:"preferredValue,omitempty"`
	DataType                string `yaml:"dataType,omitempty"`
	IsDeprecated            bool   `yaml:"isDeprecated,omitempty"`
	IsCaseSensitive         bool   `yaml:"isCaseSensitive,omitempty"`
}

type ValidValue struct {
	ElementHeader `yaml:"header"`
	Properties    ValidValueProperties `yaml:"properties"`
}
