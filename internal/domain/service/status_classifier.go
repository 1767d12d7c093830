package service

import (
	"regexp"
	"strings"
)

// Ключевые слова по умолчанию; используются, если конфигурация пуста
var (
	DefaultClosedKeywords = []string{"closed", "resolved", "merged", "deleted", "spam", "cancelled"}

	DefaultPendingKeywords = []string{
		"pending",
		"uptime",
		"waiting",
		"waiting on user",
		"waiting on customer",
		"in-progress",
		"closure pending",
		"internal escalation",
	}
)

// RuleKind определяет способ сопоставления ключевого слова со статусом
type RuleKind string

const (
	RuleSubstring RuleKind = "substring"
	RuleExact     RuleKind = "exact"
	RuleRegex     RuleKind = "regex"
)

const (
	exactPrefix = "="
	regexPrefix = "re:"
)

// KeywordRule описывает одно правило классификации статуса
type KeywordRule struct {
	Kind    RuleKind
	Pattern string

	re *regexp.Regexp
}

// NewKeywordRule разбирает запись списка: "=open" означает точное совпадение,
// "re:^wait" задает регулярное выражение, остальное ищется как подстрока.
// Некорректное регулярное выражение дает ok=false.
func NewKeywordRule(entry string) (KeywordRule, bool) {
	switch {
	case strings.HasPrefix(entry, regexPrefix):
		pattern := strings.TrimSpace(strings.TrimPrefix(entry, regexPrefix))
		re, err := regexp.Compile(pattern)
		if pattern == "" || err != nil {
			return KeywordRule{}, false
		}
		return KeywordRule{Kind: RuleRegex, Pattern: pattern, re: re}, true
	case strings.HasPrefix(entry, exactPrefix):
		pattern := strings.TrimSpace(strings.TrimPrefix(entry, exactPrefix))
		if pattern == "" {
			return KeywordRule{}, false
		}
		return KeywordRule{Kind: RuleExact, Pattern: pattern}, true
	default:
		if entry == "" {
			return KeywordRule{}, false
		}
		return KeywordRule{Kind: RuleSubstring, Pattern: entry}, true
	}
}

// Match проверяет уже приведенный к нижнему регистру статус
func (r KeywordRule) Match(normalized string) bool {
	switch r.Kind {
	case RuleExact:
		return normalized == r.Pattern
	case RuleRegex:
		return r.re != nil && r.re.MatchString(normalized)
	default:
		return strings.Contains(normalized, r.Pattern)
	}
}

// ParseKeywordList разбирает список через запятую: trim, lower-case, без пустых.
// Пустой результат заменяется на fallback.
func ParseKeywordList(raw string, fallback []string) []string {
	parsed := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		keyword := strings.ToLower(strings.TrimSpace(part))
		if keyword != "" {
			parsed = append(parsed, keyword)
		}
	}

	if len(parsed) == 0 {
		return append([]string(nil), fallback...)
	}
	return parsed
}

func compileRules(keywords []string) []KeywordRule {
	rules := make([]KeywordRule, 0, len(keywords))
	for _, keyword := range keywords {
		if rule, ok := NewKeywordRule(keyword); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// StatusClassifier относит статус тикета к закрытым или ожидающим
type StatusClassifier struct {
	closed  []KeywordRule
	pending []KeywordRule
}

// NewStatusClassifier создает классификатор из строк конфигурации
func NewStatusClassifier(closedRaw, pendingRaw string) *StatusClassifier {
	return &StatusClassifier{
		closed:  compileRules(ParseKeywordList(closedRaw, DefaultClosedKeywords)),
		pending: compileRules(ParseKeywordList(pendingRaw, DefaultPendingKeywords)),
	}
}

// DefaultStatusClassifier использует встроенные списки
func DefaultStatusClassifier() *StatusClassifier {
	return NewStatusClassifier("", "")
}

func (c *StatusClassifier) IsClosed(status string) bool {
	return matchAny(c.closed, status)
}

func (c *StatusClassifier) IsPending(status string) bool {
	return matchAny(c.pending, status)
}

// ClosedRules и PendingRules нужны для логирования активной конфигурации
func (c *StatusClassifier) ClosedRules() []KeywordRule {
	return append([]KeywordRule(nil), c.closed...)
}

func (c *StatusClassifier) PendingRules() []KeywordRule {
	return append([]KeywordRule(nil), c.pending...)
}

func matchAny(rules []KeywordRule, status string) bool {
	if status == "" {
		return false
	}

	normalized := strings.ToLower(status)
	for _, rule := range rules {
		if rule.Match(normalized) {
			return true
		}
	}
	return false
}
