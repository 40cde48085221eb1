package beans

import "fmt"

// Enum types. Their values are the ordinals of the corresponding
// open metadata enum definitions.

type CommentType int

const (
	CommentTypeStandard        CommentType = 0
	CommentTypeQuestion        CommentType = 1
	CommentTypeAnswer          CommentType = 2
	CommentTypeSuggestion      CommentType = 3
	CommentTypeUsageExperience CommentType = 4
	CommentTypeRequirement     CommentType = 5
	CommentTypeOther           CommentType = 99
)

func (c CommentType) String() string {
	switch c {
	case CommentTypeStandard:
		return "STANDARD_COMMENT"
	case CommentTypeQuestion:
		return "QUESTION"
	case CommentTypeAnswer:
		return "ANSWER"
	case CommentTypeSuggestion:
		return "SUGGESTION"
	case CommentTypeUsageExperience:
		return "USAGE_EXPERIENCE"
	case CommentTypeRequirement:
		return "REQUIREMENT"
	case CommentTypeOther:
		return "OTHER"
	}
	return fmt.Sprintf("CommentType(%d)", int(c))
}

type StarRating int

const (
	StarRatingNone StarRating = iota
	StarRatingOne
	StarRatingTwo
	StarRatingThree
	StarRatingFour
	StarRatingFive
)

func (s StarRating) String() string {
	switch s {
	case StarRatingNone:
		return "NO_RECOMMENDATION"
	case StarRatingOne:
		return "ONE_STAR"
	case StarRatingTwo:
		return "TWO_STARS"
	case StarRatingThree:
		return "THREE_STARS"
	case StarRatingFour:
		return "FOUR_STARS"
	case StarRatingFive:
		return "FIVE_STARS"
	}
	return fmt.Sprintf("StarRating(%d)", int(s))
}

type DataItemSortOrder int

const (
	SortOrderUnknown    DataItemSortOrder = 0
	SortOrderAscending  DataItemSortOrder = 1
	SortOrderDescending DataItemSortOrder = 2
	SortOrderUnsorted   DataItemSortOrder = 3
	SortOrderOther      DataItemSortOrder = 99
)

func (s DataItemSortOrder) String() string {
	switch s {
	case SortOrderUnknown:
		return "UNKNOWN"
	case SortOrderAscending:
		return "ASCENDING"
	case SortOrderDescending:
		return "DESCENDING"
	case SortOrderUnsorted:
		return "UNSORTED"
	case SortOrderOther:
		return "OTHER"
	}
	return fmt.Sprintf("DataItemSortOrder(%d)", int(s))
}

type KeyPattern int

const (
	KeyPatternLocal     KeyPattern = 0
	KeyPatternRecycled  KeyPattern = 1
	KeyPatternNatural   KeyPattern = 2
	KeyPatternMirror    KeyPattern = 3
	KeyPatternAggregate KeyPattern = 4
	KeyPatternCallers   KeyPattern = 5
	KeyPatternStable    KeyPattern = 6
	KeyPatternOther     KeyPattern = 99
)

func (k KeyPattern) String() string {
	switch k {
	case KeyPatternLocal:
		return "LOCAL_KEY"
	case KeyPatternRecycled:
		return "RECYCLED_KEY"
	case KeyPatternNatural:
		return "NATURAL_KEY"
	case KeyPatternMirror:
		return "MIRROR_KEY"
	case KeyPatternAggregate:
		return "AGGREGATE_KEY"
	case KeyPatternCallers:
		return "CALLERS_KEY"
	case KeyPatternStable:
		return "STABLE_KEY"
	case KeyPatternOther:
		return "OTHER"
	}
	return fmt.Sprintf("KeyPattern(%d)", int(k))
}

type TermAssignmentStatus int

const (
	TermAssignmentDiscovered TermAssignmentStatus = 0
	TermAssignmentProposed   TermAssignmentStatus = 1
	TermAssignmentImported   TermAssignmentStatus = 2
	TermAssignmentValidated  TermAssignmentStatus = 3
	TermAssignmentDeprecated TermAssignmentStatus = 4
	TermAssignmentObsolete   TermAssignmentStatus = 5
	TermAssignmentOther      TermAssignmentStatus = 99
)

func (s TermAssignmentStatus) String() string {
	switch s {
	case TermAssignmentDiscovered:
		return "DISCOVERED"
	case TermAssignmentProposed:
		return "PROPOSED"
	case TermAssignmentImported:
		return "IMPORTED"
	case TermAssignmentValidated:
		return "VALIDATED"
	case TermAssignmentDeprecated:
		return "DEPRECATED"
	case TermAssignmentObsolete:
		return "OBSOLETE"
	case TermAssignmentOther:
		return "OTHER"
	}
	return fmt.Sprintf("TermAssignmentStatus(%d)", int(s))
}

// APIParameterListType tells which part of an API operation a parameter list describes.
// It is derived from the relationship between the operation and the list.
type APIParameterListType string

const (
	APIParameterListHeader   APIParameterListType = "HEADER"
	APIParameterListRequest  APIParameterListType = "REQUEST"
	APIParameterListResponse APIParameterListType = "RESPONSE"
)
