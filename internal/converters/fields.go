package converters

import (
	"time"

	"github.com/dnswlt/metamap/internal/beans"
	c "github.com/dnswlt/metamap/internal/convert"
)

// Shared field tables. Subtype tables embed their base table first.

func referenceableFields() []c.Field[beans.ReferenceableProperties] {
	type P = beans.ReferenceableProperties
	return []c.Field[P]{
		c.String("qualifiedName", func(p *P) *string { return &p.QualifiedName }),
		c.StringMap("additionalProperties", func(p *P) *map[string]string { return &p.AdditionalProperties }),
	}
}

func schemaElementFields() []c.Field[beans.SchemaElementProperties] {
	type P = beans.SchemaElementProperties
	fields := c.Embed(referenceableFields(), func(p *P) *beans.ReferenceableProperties { return &p.ReferenceableProperties })
	return append(fields,
		c.String("displayName", func(p *P) *string { return &p.DisplayName }),
		c.String("description", func(p *P) *string { return &p.Description }),
		c.Bool("isDeprecated", func(p *P) *bool { return &p.IsDeprecated }),
	)
}

func schemaTypeFields() []c.Field[beans.SchemaTypeProperties] {
	type P = beans.SchemaTypeProperties
	fields := c.Embed(schemaElementFields(), func(p *P) *beans.SchemaElementProperties { return &p.SchemaElementProperties })
	return append(fields,
		c.String("versionNumber", func(p *P) *string { return &p.VersionNumber }),
		c.String("author", func(p *P) *string { return &p.Author }),
		c.String("usage", func(p *P) *string { return &p.Usage }),
		c.String("encodingStandard", func(p *P) *string { return &p.EncodingStandard }),
		c.String("namespace", func(p *P) *string { return &p.Namespace }),
	)
}

func schemaAttributeFields() []c.Field[beans.SchemaAttributeProperties] {
	type P = beans.SchemaAttributeProperties
	fields := c.Embed(schemaElementFields(), func(p *P) *beans.SchemaElementProperties { return &p.SchemaElementProperties })
	return append(fields,
		c.Int("position", func(p *P) *int { return &p.Position }),
		c.Int("minCardinality", func(p *P) *int { return &p.MinCardinality }),
		c.Int("maxCardinality", func(p *P) *int { return &p.MaxCardinality }),
		c.Bool("allowsDuplicateValues", func(p *P) *bool { return &p.AllowsDuplicateValues }),
		c.Bool("orderedValues", func(p *P) *bool { return &p.OrderedValues }),
		c.String("defaultValueOverride", func(p *P) *string { return &p.DefaultValueOverride }),
		c.Enum("sortOrder", "DataItemSortOrder", func(p *P) *beans.DataItemSortOrder { return &p.SortOrder }),
		c.Int("minimumLength", func(p *P) *int { return &p.MinimumLength }),
		c.Int("length", func(p *P) *int { return &p.Length }),
		c.Int("precision", func(p *P) *int { return &p.Precision }),
		c.Bool("isNullable", func(p *P) *bool { return &p.IsNullable }),
		c.String("nativeClass", func(p *P) *string { return &p.NativeClass }),
		c.StringArray("aliases", func(p *P) *[]string { return &p.Aliases }),
	)
}

func assetFields() []c.Field[beans.AssetProperties] {
	type P = beans.AssetProperties
	fields := c.Embed(referenceableFields(), func(p *P) *beans.ReferenceableProperties { return &p.ReferenceableProperties })
	return append(fields,
		c.String("name", func(p *P) *string { return &p.Name }),
		c.String("versionIdentifier", func(p *P) *string { return &p.VersionIdentifier }),
		c.String("description", func(p *P) *string { return &p.Description }),
	)
}

func endpointFields() []c.Field[beans.EndpointProperties] {
	type P = beans.EndpointProperties
	fields := c.Embed(referenceableFields(), func(p *P) *beans.ReferenceableProperties { return &p.ReferenceableProperties })
	return append(fields,
		c.String("name", func(p *P) *string { return &p.Name }),
		c.String("description", func(p *P) *string { return &p.Description }),
		c.String("networkAddress", func(p *P) *string { return &p.NetworkAddress }),
		c.String("protocol", func(p *P) *string { return &p.Protocol }),
		c.String("encryptionMethod", func(p *P) *string { return &p.EncryptionMethod }),
	)
}

func connectionFields() []c.Field[beans.ConnectionProperties] {
	type P = beans.ConnectionProperties
	fields := c.Embed(referenceableFields(), func(p *P) *beans.ReferenceableProperties { return &p.ReferenceableProperties })
	return append(fields,
		c.String("displayName", func(p *P) *string { return &p.DisplayName }),
		c.String("description", func(p *P) *string { return &p.Description }),
		c.StringMap("securedProperties", func(p *P) *map[string]string { return &p.SecuredProperties }),
		c.AnyMap("configurationProperties", func(p *P) *map[string]any { return &p.ConfigurationProperties }),
		c.String("userId", func(p *P) *string { return &p.UserID }),
		c.String("clearPassword", func(p *P) *string { return &p.ClearPassword }),
		c.String("encryptedPassword", func(p *P) *string { return &p.EncryptedPassword }),
	)
}

func connectorTypeFields() []c.Field[beans.ConnectorTypeProperties] {
	type P = beans.ConnectorTypeProperties
	fields := c.Embed(referenceableFields(), func(p *P) *beans.ReferenceableProperties { return &p.ReferenceableProperties })
	return append(fields,
		c.String("displayName", func(p *P) *string { return &p.DisplayName }),
		c.String("description", func(p *P) *string { return &p.Description }),
		c.String("supportedAssetTypeName", func(p *P) *string { return &p.SupportedAssetTypeName }),
		c.String("expectedDataFormat", func(p *P) *string { return &p.ExpectedDataFormat }),
		c.String("connectorProviderClassName", func(p *P) *string { return &p.ConnectorProviderClassName }),
		c.String("connectorFrameworkName", func(p *P) *string { return &p.ConnectorFrameworkName }),
		c.String("connectorInterfaceLanguage", func(p *P) *string { return &p.ConnectorInterfaceLanguage }),
		c.StringArray("connectorInterfaces", func(p *P) *[]string { return &p.ConnectorInterfaces }),
		c.String("targetTechnologySource", func(p *P) *string { return &p.TargetTechnologySource }),
		c.String("targetTechnologyName", func(p *P) *string { return &p.TargetTechnologyName }),
		c.StringArray("recognizedAdditionalProperties", func(p *P) *[]string { return &p.RecognizedAdditionalProperties }),
		c.StringArray("recognizedConfigurationProperties", func(p *P) *[]string { return &p.RecognizedConfigurationProperties }),
		c.StringArray("recognizedSecuredProperties", func(p *P) *[]string { return &p.RecognizedSecuredProperties }),
	)
}

func apiOperationFields() []c.Field[beans.APIOperationProperties] {
	type P = beans.APIOperationProperties
	fields := c.Embed(schemaTypeFields(), func(p *P) *beans.SchemaTypeProperties { return &p.SchemaTypeProperties })
	return append(fields,
		c.String("path", func(p *P) *string { return &p.Path }),
		c.String("command", func(p *P) *string { return &p.Command }),
	)
}

func apiParameterListFields() []c.Field[beans.APIParameterListProperties] {
	type P = beans.APIParameterListProperties
	fields := c.Embed(schemaTypeFields(), func(p *P) *beans.SchemaTypeProperties { return &p.SchemaTypeProperties })
	return append(fields,
		c.Bool("required", func(p *P) *bool { return &p.Required }),
	)
}

func commentFields() []c.Field[beans.CommentProperties] {
	type P = beans.CommentProperties
	fields := c.Embed(referenceableFields(), func(p *P) *beans.ReferenceableProperties { return &p.ReferenceableProperties })
	return append(fields,
		c.String("text", func(p *P) *string { return &p.Text }),
		c.Enum("commentType", "CommentType", func(p *P) *beans.CommentType { return &p.Type }),
	)
}

func ratingFields() []c.Field[beans.RatingProperties] {
	type P = beans.RatingProperties
	return []c.Field[P]{
		// Unknown star ratings are read as NO_RECOMMENDATION.
		c.EnumOrDefault("stars", "StarRating", beans.StarRatingNone, func(p *P) *beans.StarRating { return &p.Stars }),
		c.String("review", func(p *P) *string { return &p.Review }),
	}
}

func informalTagFields() []c.Field[beans.InformalTagProperties] {
	type P = beans.InformalTagProperties
	return []c.Field[P]{
		c.String("tagName", func(p *P) *string { return &p.Name }),
		c.String("tagDescription", func(p *P) *string { return &p.Description }),
		c.Bool("isPrivateTag", func(p *P) *bool { return &p.IsPrivateTag }),
	}
}

func glossaryTermFields() []c.Field[beans.GlossaryTermProperties] {
	type P = beans.GlossaryTermProperties
	fields := c.Embed(referenceableFields(), func(p *P) *beans.ReferenceableProperties { return &p.ReferenceableProperties })
	return append(fields,
		c.String("displayName", func(p *P) *string { return &p.DisplayName }),
		c.String("summary", func(p *P) *string { return &p.Summary }),
		c.String("description", func(p *P) *string { return &p.Description }),
		c.String("examples", func(p *P) *string { return &p.Examples }),
		c.String("abbreviation", func(p *P) *string { return &p.Abbreviation }),
		c.String("usage", func(p *P) *string { return &p.Usage }),
		c.String("publishVersionIdentifier", func(p *P) *string { return &p.PublishVersionIdentifier }),
	)
}

func validValueFields() []c.Field[beans.ValidValueProperties] {
	type P = beans.ValidValueProperties
	fields := c.Embed(referenceableFields(), func(p *P) *beans.ReferenceableProperties { return &p.ReferenceableProperties })
	return append(fields,
		c.String("displayName", func(p *P) *string { return &p.DisplayName }),
		c.String("description", func(p *P) *string { return &p.Description }),
		c.String("usage", func(p *P) *string { return &p.Usage }),
		c.String("scope", func(p *P) *string { return &p.Scope }),
		c.String("preferredValue", func(p *P) *string { return &p.PreferredValue }),
		c.String("dataType", func(p *P) *string { return &p.DataType }),
		c.Bool("isDeprecated", func(p *P) *bool { return &p.IsDeprecated }),
		c.Bool("isCaseSensitive", func(p *P) *bool { return &p.IsCaseSensitive }),
	)
}

func foreignKeyFields() []c.Field[beans.ForeignKeyProperties] {
	type P = beans.ForeignKeyProperties
	return []c.Field[P]{
		c.String("name", func(p *P) *string { return &p.Name }),
		c.String("description", func(p *P) *string { return &p.Description }),
		c.Int("confidence", func(p *P) *int { return &p.Confidence }),
		c.String("steward", func(p *P) *string { return &p.Steward }),
		c.String("source", func(p *P) *string { return &p.Source }),
	}
}

func semanticAssignmentFields() []c.Field[beans.SemanticAssignmentProperties] {
	type P = beans.SemanticAssignmentProperties
	return []c.Field[P]{
		c.String("expression", func(p *P) *string { return &p.Expression }),
		c.String("description", func(p *P) *string { return &p.Description }),
		c.Enum("status", "TermAssignmentStatus", func(p *P) *beans.TermAssignmentStatus { return &p.Status }),
		c.Int("confidence", func(p *P) *int { return &p.Confidence }),
		c.String("createdBy", func(p *P) *string { return &p.CreatedBy }),
		c.String("steward", func(p *P) *string { return &p.Steward }),
		c.String("source", func(p *P) *string { return &p.Source }),
	}
}

func certificationFields() []c.Field[beans.CertificationProperties] {
	type P = beans.CertificationProperties
	return []c.Field[P]{
		c.String("certificateGUID", func(p *P) *string { return &p.CertificateGUID }),
		c.Date("start", func(p *P) *time.Time { return &p.Start }),
		c.Date("end", func(p *P) *time.Time { return &p.End }),
		c.String("conditions", func(p *P) *string { return &p.Conditions }),
		c.String("certifiedBy", func(p *P) *string { return &p.CertifiedBy }),
		c.String("custodian", func(p *P) *string { return &p.Custodian }),
		c.String("recipient", func(p *P) *string { return &p.Recipient }),
		c.String("notes", func(p *P) *string { return &p.Notes }),
	}
}

// primaryKeyFields maps the properties of the PrimaryKey classification.
func primaryKeyFields() []c.Field[beans.PrimaryKey] {
	type P = beans.PrimaryKey
	return []c.Field[P]{
		c.String("name", func(p *P) *string { return &p.Name }),
		c.Enum("keyPattern", "KeyPattern", func(p *P) *beans.KeyPattern { return &p.KeyPattern }),
	}
}
