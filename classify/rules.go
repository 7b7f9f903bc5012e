package classify

import (
	"strings"

	"github.com/bassamadnan/mailsort/email"
)

// How much of the body the rules look at.
const ruleBodyWindow = 500

var (
	promotionalSubject = []string{"sale", "discount", "% off", "deal", "offer", "coupon", "save"}
	promotionalBody    = []string{"shop now", "buy now", "limited time", "flash sale"}
	socialSenders      = []string{"facebook", "twitter", "instagram", "linkedin", "tinder", "bumble"}
	socialSubject      = []string{"liked your", "commented on", "friend request", "connection request", "tagged you"}
	importantSubject   = []string{"urgent", "action required", "meeting", "deadline", "asap", "important", "review", "approve"}
	marketingSubject   = []string{"newsletter", "update", "blog", "webinar", "announcement"}
	spamSubject        = []string{"winner", "congratulations", "claim", "verify your account", "act now"}
)

// rule pairs a category with its indicator match over the lower-cased
// subject, sender and body window.
type rule struct {
	category email.Category
	matches  func(subject, from, body string) bool
}

// rules are evaluated in order; the first match decides. The ordering is a
// contract: a message hitting both the promotional and social groups files
// as Promotional.
var rules = []rule{
	{email.CategoryPromotional, func(subject, from, body string) bool {
		return containsAny(subject, promotionalSubject) || containsAny(body, promotionalBody)
	}},
	{email.CategorySocial, func(subject, from, body string) bool {
		return containsAny(from, socialSenders) || containsAny(subject, socialSubject)
	}},
	{email.CategoryImportant, func(subject, from, body string) bool {
		return !isNoReply(from) && containsAny(subject, importantSubject)
	}},
	{email.CategoryMarketing, func(subject, from, body string) bool {
		return isNoReply(from) && (containsAny(subject, marketingSubject) || strings.Contains(body, "unsubscribe"))
	}},
	{email.CategorySpam, func(subject, from, body string) bool {
		return containsAny(subject, spamSubject) || strings.Contains(body, "click here immediately")
	}},
}

// ApplyRules classifies a message without any model call. It never fails; a
// message matching no rule group files as General.
func ApplyRules(subject, from, body string) email.Category {
	subject = strings.ToLower(subject)
	from = strings.ToLower(from)
	body = strings.ToLower(body)
	if len(body) > ruleBodyWindow {
		body = body[:ruleBodyWindow]
	}
	for _, r := range rules {
		if r.matches(subject, from, body) {
			return r.category
		}
	}
	return email.CategoryGeneral
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func isNoReply(from string) bool {
	return strings.Contains(from, "noreply") || strings.Contains(from, "no-reply")
}
