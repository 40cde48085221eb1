package converters

import (
	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/convert"
	"github.com/dnswlt/metamap/internal/instance"
)

// deriveRelationalColumn sets the primary key from the PrimaryKey classification and
// the foreign keys from the ForeignKey relationships in which the column is at end 2.
func deriveRelationalColumn(ctx *convert.Context, b *beans.RelationalColumn) error {
	if cls := ctx.Entity.Classification(classPrimaryKey); cls != nil {
		pk := &beans.PrimaryKey{}
		if err := convert.DecodeFields(ctx.Mapper, ctx.Kind, primaryKeyFields(), cls.Properties, pk); err != nil {
			return err
		}
		b.PrimaryKey = pk
	}
	for _, r := range ctx.Matching(relForeignKey) {
		if ctx.EndPosition(r) != 2 {
			continue
		}
		fk, err := convert.DecodeRelationshipAs[beans.ForeignKey](ctx.Mapper, KindForeignKey, r)
		if err != nil {
			return err
		}
		b.ForeignKeys = append(b.ForeignKeys, beans.ForeignKeyReference{
			RelationshipGUID:              r.GUID,
			ReferencedColumnGUID:          r.End1.GUID,
			ReferencedColumnQualifiedName: r.End1.UniqueName(),
			Name:                          fk.Properties.Name,
			Description:                   fk.Properties.Description,
			Confidence:                    fk.Properties.Confidence,
			Steward:                       fk.Properties.Steward,
			Source:                        fk.Properties.Source,
		})
	}
	return nil
}

// deriveAPIParameterList counts the parameters nested in the list and sets the list type
// from the relationship that attaches the list to its operation.
func deriveAPIParameterList(ctx *convert.Context, b *beans.APIParameterList) error {
	for _, r := range ctx.Matching(relNestedSchemaAttribute) {
		if ctx.EndPosition(r) == 1 {
			b.ParameterCount++
		}
	}
	listTypes := []struct {
		relType  string
		listType beans.APIParameterListType
	}{
		{relAPIHeader, beans.APIParameterListHeader},
		{relAPIRequest, beans.APIParameterListRequest},
		{relAPIResponse, beans.APIParameterListResponse},
	}
	for _, r := range ctx.Relationships {
		if ctx.EndPosition(r) != 2 {
			continue
		}
		for _, lt := range listTypes {
			if ctx.Mapper.IsInstanceOf(r.Type, lt.relType) {
				b.ParameterListType = lt.listType
				return nil
			}
		}
	}
	return nil
}

// attachment holds the properties of the relationships that attach feedback to an element.
type attachment struct {
	IsPublic bool
}

// derivePublic sets isPublic from the first relationship of type relType that has the
// entity being decoded at end 2.
func derivePublic(ctx *convert.Context, relType string, isPublic *bool) error {
	for _, r := range ctx.Matching(relType) {
		if ctx.EndPosition(r) != 2 {
			continue
		}
		fields := []convert.Field[attachment]{
			convert.Bool("isPublic", func(a *attachment) *bool { return &a.IsPublic }),
		}
		var a attachment
		if err := convert.DecodeFields(ctx.Mapper, ctx.Kind, fields, r.Properties, &a); err != nil {
			return err
		}
		*isPublic = a.IsPublic
		return nil
	}
	return nil
}

func stub(p *instance.EntityProxy) beans.ElementStub {
	s := beans.ElementStub{GUID: p.GUID, UniqueName: p.UniqueName()}
	if p.Type != nil {
		s.TypeName = p.Type.TypeDefName
	}
	return s
}

func deriveInformalTag(ctx *convert.Context, b *beans.InformalTag) error {
	for _, r := range ctx.Matching(relAttachedTag) {
		if ctx.EndPosition(r) == 2 {
			b.TaggedElements = append(b.TaggedElements, stub(r.End1))
		}
	}
	return nil
}

// otherEndOf returns the far end of the first relationship of type typeName that is
// attached to the entity being decoded, or nil.
func otherEndOf(ctx *convert.Context, typeName string) *instance.EntityProxy {
	for _, r := range ctx.Matching(typeName) {
		if ctx.EndPosition(r) != 0 {
			return convert.OtherEnd(r, ctx.Entity.GUID)
		}
	}
	return nil
}

// deriveConnection sets the GUIDs of the connection's endpoint and connector type.
func deriveConnection(ctx *convert.Context, b *beans.Connection) error {
	if other := otherEndOf(ctx, relConnectionEndpoint); other != nil {
		b.EndpointGUID = other.GUID
	}
	if other := otherEndOf(ctx, relConnectionConnectorType); other != nil {
		b.ConnectorTypeGUID = other.GUID
	}
	return nil
}
