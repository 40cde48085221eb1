// Package converters declares the kinds that map the open metadata types of the
// base model to beans. Use NewMapper to obtain a mapper with all of them registered.
package converters

import (
	"log"

	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/convert"
	"github.com/dnswlt/metamap/internal/typedef"
)

// Kind tags of the registered kinds.
const (
	KindAsset              = "Asset"
	KindEndpoint           = "Endpoint"
	KindConnection         = "Connection"
	KindConnectorType      = "ConnectorType"
	KindSchemaType         = "SchemaType"
	KindSchemaAttribute    = "SchemaAttribute"
	KindRelationalColumn   = "RelationalColumn"
	KindAPIOperation       = "APIOperation"
	KindAPIParameterList   = "APIParameterList"
	KindComment            = "Comment"
	KindRating             = "Rating"
	KindLike               = "Like"
	KindInformalTag        = "InformalTag"
	KindGlossaryTerm       = "GlossaryTerm"
	KindValidValue         = "ValidValue"
	KindForeignKey         = "ForeignKey"
	KindSemanticAssignment = "SemanticAssignment"
	KindCertification      = "Certification"
)

// Names of relationship and classification types that fields are derived from.
const (
	relForeignKey              = "ForeignKey"
	relNestedSchemaAttribute   = "NestedSchemaAttribute"
	relAPIHeader               = "APIHeader"
	relAPIRequest              = "APIRequest"
	relAPIResponse             = "APIResponse"
	relAttachedComment         = "AttachedComment"
	relAttachedRating          = "AttachedRating"
	relAttachedLike            = "AttachedLike"
	relAttachedTag             = "AttachedTag"
	relConnectionEndpoint      = "ConnectionEndpoint"
	relConnectionConnectorType = "ConnectionConnectorType"
	classPrimaryKey            = "PrimaryKey"
)

// Kinds returns new instances of all kinds. Kinds must not be registered with more than one mapper,
// so each mapper needs its own.
func Kinds() []convert.Converter {
	return []convert.Converter{
		&convert.EntityKind[beans.Asset, beans.AssetProperties]{
			Kind:       KindAsset,
			TypeName:   "Asset",
			Properties: func(b *beans.Asset) *beans.AssetProperties { return &b.Properties },
			Fields:     assetFields(),
		},
		&convert.EntityKind[beans.Endpoint, beans.EndpointProperties]{
			Kind:       KindEndpoint,
			TypeName:   "Endpoint",
			Properties: func(b *beans.Endpoint) *beans.EndpointProperties { return &b.Properties },
			Fields:     endpointFields(),
		},
		&convert.EntityKind[beans.Connection, beans.ConnectionProperties]{
			Kind:       KindConnection,
			TypeName:   "Connection",
			Properties: func(b *beans.Connection) *beans.ConnectionProperties { return &b.Properties },
			Fields:     connectionFields(),
			Derive:     deriveConnection,
		},
		&convert.EntityKind[beans.ConnectorType, beans.ConnectorTypeProperties]{
			Kind:       KindConnectorType,
			TypeName:   "ConnectorType",
			Properties: func(b *beans.ConnectorType) *beans.ConnectorTypeProperties { return &b.Properties },
			Fields:     connectorTypeFields(),
		},
		&convert.EntityKind[beans.SchemaType, beans.SchemaTypeProperties]{
			Kind:       KindSchemaType,
			TypeName:   "SchemaType",
			Properties: func(b *beans.SchemaType) *beans.SchemaTypeProperties { return &b.Properties },
			Fields:     schemaTypeFields(),
		},
		&convert.EntityKind[beans.SchemaAttribute, beans.SchemaAttributeProperties]{
			Kind:       KindSchemaAttribute,
			TypeName:   "SchemaAttribute",
			Properties: func(b *beans.SchemaAttribute) *beans.SchemaAttributeProperties { return &b.Properties },
			Fields:     schemaAttributeFields(),
		},
		&convert.EntityKind[beans.RelationalColumn, beans.SchemaAttributeProperties]{
			Kind:       KindRelationalColumn,
			TypeName:   "RelationalColumn",
			Properties: func(b *beans.RelationalColumn) *beans.SchemaAttributeProperties { return &b.Properties },
			Fields:     schemaAttributeFields(),
			Derive:     deriveRelationalColumn,
		},
		&convert.EntityKind[beans.APIOperation, beans.APIOperationProperties]{
			Kind:       KindAPIOperation,
			TypeName:   "APIOperation",
			Properties: func(b *beans.APIOperation) *beans.APIOperationProperties { return &b.Properties },
			Fields:     apiOperationFields(),
		},
		&convert.EntityKind[beans.APIParameterList, beans.APIParameterListProperties]{
			Kind:       KindAPIParameterList,
			TypeName:   "APIParameterList",
			Properties: func(b *beans.APIParameterList) *beans.APIParameterListProperties { return &b.Properties },
			Fields:     apiParameterListFields(),
			Derive:     deriveAPIParameterList,
		},
		&convert.EntityKind[beans.Comment, beans.CommentProperties]{
			Kind:       KindComment,
			TypeName:   "Comment",
			Properties: func(b *beans.Comment) *beans.CommentProperties { return &b.Properties },
			Fields:     commentFields(),
			Derive: func(ctx *convert.Context, b *beans.Comment) error {
				return derivePublic(ctx, relAttachedComment, &b.IsPublic)
			},
		},
		&convert.EntityKind[beans.Rating, beans.RatingProperties]{
			Kind:       KindRating,
			TypeName:   "Rating",
			Properties: func(b *beans.Rating) *beans.RatingProperties { return &b.Properties },
			Fields:     ratingFields(),
			Derive: func(ctx *convert.Context, b *beans.Rating) error {
				return derivePublic(ctx, relAttachedRating, &b.IsPublic)
			},
		},
		&convert.EntityKind[beans.Like, beans.LikeProperties]{
			Kind:       KindLike,
			TypeName:   "Like",
			Properties: func(b *beans.Like) *beans.LikeProperties { return &b.Properties },
			Derive: func(ctx *convert.Context, b *beans.Like) error {
				return derivePublic(ctx, relAttachedLike, &b.IsPublic)
			},
		},
		&convert.EntityKind[beans.InformalTag, beans.InformalTagProperties]{
			Kind:       KindInformalTag,
			TypeName:   "InformalTag",
			Properties: func(b *beans.InformalTag) *beans.InformalTagProperties { return &b.Properties },
			Fields:     informalTagFields(),
			Derive:     deriveInformalTag,
		},
		&convert.EntityKind[beans.GlossaryTerm, beans.GlossaryTermProperties]{
			Kind:       KindGlossaryTerm,
			TypeName:   "GlossaryTerm",
			Properties: func(b *beans.GlossaryTerm) *beans.GlossaryTermProperties { return &b.Properties },
			Fields:     glossaryTermFields(),
		},
		&convert.EntityKind[beans.ValidValue, beans.ValidValueProperties]{
			Kind:       KindValidValue,
			TypeName:   "ValidValueDefinition",
			Properties: func(b *beans.ValidValue) *beans.ValidValueProperties { return &b.Properties },
			Fields:     validValueFields(),
		},
		&convert.RelationshipKind[beans.ForeignKey, beans.ForeignKeyProperties]{
			Kind:       KindForeignKey,
			TypeName:   "ForeignKey",
			Properties: func(b *beans.ForeignKey) *beans.ForeignKeyProperties { return &b.Properties },
			Fields:     foreignKeyFields(),
		},
		&convert.RelationshipKind[beans.SemanticAssignment, beans.SemanticAssignmentProperties]{
			Kind:       KindSemanticAssignment,
			TypeName:   "SemanticAssignment",
			Properties: func(b *beans.SemanticAssignment) *beans.SemanticAssignmentProperties { return &b.Properties },
			Fields:     semanticAssignmentFields(),
		},
		&convert.RelationshipKind[beans.Certification, beans.CertificationProperties]{
			Kind:       KindCertification,
			TypeName:   "Certification",
			Properties: func(b *beans.Certification) *beans.CertificationProperties { return &b.Properties },
			Fields:     certificationFields(),
		},
	}
}

// Register registers all kinds with m.
func Register(m *convert.Mapper) error {
	return m.Register(Kinds()...)
}

// NewMapper returns a mapper for the given type registry with all kinds registered.
// If logger is non-nil, the mapper logs the relationships it derives fields from.
func NewMapper(types *typedef.Registry, logger *log.Logger) (*convert.Mapper, error) {
	var opts []convert.Option
	if logger != nil {
		opts = append(opts, convert.WithLogger(logger))
	}
	m := convert.NewMapper(types, opts...)
	if err := Register(m); err != nil {
		return nil, err
	}
	return m, nil
}
