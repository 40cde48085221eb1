package beans

type AssetProperties struct {
	ReferenceableProperties `yaml:",inline"`
	Name                    string `yaml:"name,omitempty"`
	VersionIdentifier       string `yaml:"versionIdentifier,omitempty"`
	Description             string `yaml:"description,omitempty"`
}

type Asset struct {
	ElementHeader `yaml:"header"`
	Properties    AssetProperties `yaml:"properties"`
}

type EndpointProperties struct {
	ReferenceableProperties `yaml:",inline"`
	Name                    string `yaml:"name,omitempty"`
	Description             string `yaml:"description,omitempty"`
	NetworkAddress          string `yaml:"networkAddress,omitempty"`
	Protocol                string `yaml:"protocol,omitempty"`
	EncryptionMethod        string `yaml:"encryptionMethod,omitempty"`
}

type Endpoint struct {
	ElementHeader `yaml:"header"`
	Properties    EndpointProperties `yaml:"properties"`
}

type ConnectionProperties struct {
	ReferenceableProperties `yaml:",inline"`
	DisplayName             string            `yaml:"displayName,omitempty"`
	Description             string            `yaml:"description,omitempty"`
	SecuredProperties       map[string]string `yaml:"securedProperties,omitempty"`
	ConfigurationProperties map[string]any    `yaml:"configurationProperties,omitempty"`
	UserID                  string            `yaml:"userId,omitempty"`
	ClearPassword           string            `yaml:"clearPassword,omitempty"`
	EncryptedPassword       string            `yaml:"encryptedPassword,omitempty"`
}

// Connection describes how to configure a connector instance.
// EndpointGUID and ConnectorTypeGUID are derived from the connection's relationships.
type Connection struct {
	ElementHeader     `yaml:"header"`
	Properties        ConnectionProperties `yaml:"properties"`
	EndpointGUID      string               `yaml:"endpointGuid,omitempty"`
	ConnectorTypeGUID string               `yaml:"connectorTypeGuid,omitempty"`
}

type ConnectorTypeProperties struct {
	ReferenceableProperties           `yaml:",inline"`
	DisplayName                       string   `yaml:"displayName,omitempty"`
	Description                       string   `yaml:"description,omitempty"`
	SupportedAssetTypeName            string   `yaml:"supportedAssetTypeName,omitempty"`
	ExpectedDataFormat                string   `yaml:"expectedDataFormat,omitempty"`
	ConnectorProviderClassName        string   `yaml:"connectorProviderClassName,omitempty"`
	ConnectorFrameworkName            string   `yaml:"connectorFrameworkName,omitempty"`
	ConnectorInterfaceLanguage        string   `yaml:"connectorInterfaceLanguage,omitempty"`
	ConnectorInterfaces               []string `yaml:"connectorInterfaces,omitempty"`
	TargetTechnologySource            string   `yaml:"targetTechnologySource,omitempty"`
	TargetTechnologyName              string   `yaml:"targetTechnologyName,omitempty"`
	RecognizedAdditionalProperties    []string `yaml:"recognizedAdditionalProperties,omitempty"`
	RecognizedConfigurationProperties []string `yaml:"recognizedConfigurationProperties,omitempty"`
	RecognizedSecuredProperties       []string `yaml:"recognizedSecuredProperties,omitempty"`
}

type ConnectorType struct {
	ElementHeader `yaml:"header"`
	Properties    ConnectorTypeProperties `yaml:"properties"`
}
