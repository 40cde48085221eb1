package beans

import "time"

type ForeignKeyProperties struct {
	Extensions  `yaml:",inline"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Confidence  int    `yaml:"confidence"`
	Steward     string `yaml:"steward,omitempty"`
	Source      string `yaml:"source,omitempty"`
}

// ForeignKey links a primary key column (end 1) to the column that references it (end 2).
type ForeignKey struct {
	RelationshipElement `yaml:",inline"`
	Properties          ForeignKeyProperties `yaml:"properties"`
}

type SemanticAssignmentProperties struct {
	Extensions  `yaml:",inline"`
	Expression  string               `yaml:"expression,omitempty"`
	Description string               `yaml:"description,omitempty"`
	Status      TermAssignmentStatus `yaml:"status"`
	Confidence  int                  `yaml:"confidence"`
	CreatedBy   string               `yaml:"createdBy,omitempty"`
	Steward     string               `yaml:"steward,omitempty"`
	Source      string               `yaml:"source,omitempty"`
}

// SemanticAssignment links an element (end 1) to the glossary term (end 2) that defines its meaning.
type SemanticAssignment struct {
	RelationshipElement `yaml:",inline"`
	Properties          SemanticAssignmentProperties `yaml:"properties"`
}

type CertificationProperties struct {
	Extensions      `yaml:",inline"`
	CertificateGUID string    `yaml:"certificateGuid,omitempty"`
	Start           time.Time `yaml:"start,omitempty"`
	End             time.Time `yaml:"end,omitempty"`
	Conditions      string    `yaml:"conditions,omitempty"`
	CertifiedBy     string    `yaml:"certifiedBy,omitempty"`
	Custodian       string    `yaml:"custodian,omitempty"`
	Recipient       string    `yaml:"recipient,omitempty"`
	Notes           string    `yaml:"notes,omitempty"`
}

// Certification links an element (end 1) to the certification type (end 2) it was awarded.
type Certification struct {
	RelationshipElement `yaml:",inline"`
	Properties          CertificationProperties `yaml:"properties"`
}
