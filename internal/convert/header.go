package convert

import (
	"fmt"
	"time"

	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/instance"
)

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// statusOrDefault returns status, or ACTIVE for instances without a status.
func statusOrDefault(status string) string {
	if status == "" {
		return instance.StatusActive
	}
	return status
}

// elementHeader converts an instance header (and the classifications of an entity)
// into a bean header.
func (m *Mapper) elementHeader(h *instance.InstanceHeader, classifications []*instance.Classification) beans.ElementHeader {
	eh := beans.ElementHeader{
		GUID: h.GUID,
		Origin: beans.ElementOrigin{
			MetadataCollectionID:   h.MetadataCollectionID,
			MetadataCollectionName: h.MetadataCollectionName,
			Provenance:             h.Provenance,
		},
		Status: statusOrDefault(h.Status),
		Versions: beans.ElementVersions{
			CreatedBy:  h.CreatedBy,
			UpdatedBy:  h.UpdatedBy,
			CreateTime: timeValue(h.CreateTime),
			UpdateTime: timeValue(h.UpdateTime),
			Version:    h.Version,
		},
	}
	if h.Type != nil {
		eh.Type = beans.ElementType{
			TypeID:         h.Type.TypeDefGUID,
			TypeName:       h.Type.TypeDefName,
			SuperTypeNames: m.superTypes(h.Type),
		}
		if td, ok := m.types.Lookup(h.Type.TypeDefName); ok && eh.Type.TypeID == "" {
			eh.Type.TypeID = td.GUID
		}
	}
	for _, c := range classifications {
		if c == nil {
			continue
		}
		eh.Classifications = append(eh.Classifications, beans.ElementClassification{
			Name: c.Name,
			Origin: beans.ElementOrigin{
				MetadataCollectionID:   c.MetadataCollectionID,
				MetadataCollectionName: c.MetadataCollectionName,
				Provenance:             c.Provenance,
			},
			Properties: c.Properties.Map(),
		})
	}
	return eh
}

// instanceHeader is the inverse of elementHeader. typeName is the type of the instance
// to build; it must be base or one of its subtypes.
func (m *Mapper) instanceHeader(kind, base, typeName string, eh *beans.ElementHeader) (instance.InstanceHeader, []*instance.Classification, error) {
	if typeName == "" {
		typeName = base
	}
	t := &instance.InstanceType{TypeDefName: typeName}
	if typeName == eh.Type.TypeName {
		t.TypeDefGUID = eh.Type.TypeID
	}
	if td, ok := m.types.Lookup(typeName); ok {
		if t.TypeDefGUID == "" {
			t.TypeDefGUID = td.GUID
		}
	} else if typeName == eh.Type.TypeName {
		t.SuperTypes = eh.Type.SuperTypeNames
	}
	if !m.IsInstanceOf(t, base) {
		return instance.InstanceHeader{}, nil, &BadInstanceError{Kind: kind, GUID: eh.GUID, Reason: fmt.Sprintf("type %s is not a %s", typeName, base)}
	}

	h := instance.InstanceHeader{
		GUID:                   eh.GUID,
		Type:                   t,
		MetadataCollectionID:   eh.Origin.MetadataCollectionID,
		MetadataCollectionName: eh.Origin.MetadataCollectionName,
		Provenance:             eh.Origin.Provenance,
		Status:                 eh.Status,
		Version:                eh.Versions.Version,
		CreatedBy:              eh.Versions.CreatedBy,
		UpdatedBy:              eh.Versions.UpdatedBy,
		CreateTime:             timePtr(eh.Versions.CreateTime),
		UpdateTime:             timePtr(eh.Versions.UpdateTime),
	}
	if h.GUID == "" {
		h.GUID = instance.NewGUID()
	}
	h.Status = statusOrDefault(h.Status)

	var cs []*instance.Classification
	for _, ec := range eh.Classifications {
		c := &instance.Classification{
			Name:                   ec.Name,
			MetadataCollectionID:   ec.Origin.MetadataCollectionID,
			MetadataCollectionName: ec.Origin.MetadataCollectionName,
			Provenance:             ec.Origin.Provenance,
		}
		if len(ec.Properties) > 0 {
			v, err := instance.Wrap(ec.Properties)
			if err != nil {
				return instance.InstanceHeader{}, nil, &InvalidParameterError{Kind: kind, Field: "classification " + ec.Name, Reason: err.Error()}
			}
			c.Properties = v.(instance.MapValue).Properties
		}
		cs = append(cs, c)
	}
	return h, cs, nil
}
