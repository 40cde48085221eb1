package beans

// Feedback beans. IsPublic is derived from the relationship that attaches
// the feedback to the element it is about.

type CommentProperties struct {
	ReferenceableProperties `yaml:",inline"`
	Text                    string      `yaml:"text,omitempty"`
	Type                    CommentType `yaml:"commentType"`
}

type Comment struct {
	ElementHeader `yaml:"header"`
	Properties    CommentProperties `yaml:"properties"`
	IsPublic      bool              `yaml:"isPublic"`
}

type RatingProperties struct {
	Extensions `yaml:",inline"`
	Stars      StarRating `yaml:"stars"`
	Review     string     `yaml:"review,omitempty"`
}

type Rating struct {
	ElementHeader `yaml:"header"`
	Properties    RatingProperties `yaml:"properties"`
	IsPublic      bool             `yaml:"isPublic"`
}

type LikeProperties struct {
	Extensions `yaml:",inline"`
}

type Like struct {
	ElementHeader `yaml:"header"`
	Properties    LikeProperties `yaml:"properties"`
	IsPublic      bool           `yaml:"isPublic"`
}

type InformalTagProperties struct {
	Extensions   `yaml:",inline"`
	Name         string `yaml:"tagName"`
	Description  string `yaml:"tagDescription,omitempty"`
	IsPrivateTag bool   `yaml:"isPrivateTag,omitempty"`
}

// InformalTag is a free-form tag. TaggedElements is derived from its AttachedTag relationships.
type InformalTag struct {
	ElementHeader  `yaml:"header"`
	Properties     InformalTagProperties `yaml:"properties"`
	TaggedElements []ElementStub         `yaml:"taggedElements,omitempty"`
}
