package email

// Category is one of the six fixed labels a message is filed under.
type Category string

const (
	CategoryImportant   Category = "Important"
	CategoryPromotional Category = "Promotional"
	CategorySocial      Category = "Social"
	CategoryMarketing   Category = "Marketing"
	CategorySpam        Category = "Spam"
	CategoryGeneral     Category = "General"
)

// Categories lists all labels in display order.
var Categories = []Category{
	CategoryImportant,
	CategoryPromotional,
	CategorySocial,
	CategoryMarketing,
	CategorySpam,
	CategoryGeneral,
}

// Message holds the essential information extracted from a Gmail message.
type Message struct {
	ID           string
	ThreadID     string
	From         string
	Date         string // raw Date header value, not interpreted
	Subject      string
	Snippet      string
	Body         string
	InternalDate int64    // for sorting
	Category     Category // empty until classified
}
