package bot

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// expensePattern accepts "<description> <amount...>": an alphanumeric
// description followed by one or more numbers, which are summed (e.g.
// "lunch 120 30.5" logs 150.5).
var expensePattern = regexp.MustCompile(`^([a-zA-Z0-9 ]+?)\s+((?:\d+(?:\.\d+)?\s*)+)$`)

// ParseExpense extracts the description and total amount from a chat
// message. ok is false when the message is not an expense line.
func ParseExpense(text string) (desc string, amount decimal.Decimal, ok bool) {
	match := expensePattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return "", decimal.Zero, false
	}

	desc = strings.TrimSpace(match[1])
	total := decimal.Zero
	for _, field := range strings.Fields(match[2]) {
		value, err := decimal.NewFromString(field)
		if err != nil {
			return "", decimal.Zero, false
		}
		total = total.Add(value)
	}
	return desc, total, true
}
