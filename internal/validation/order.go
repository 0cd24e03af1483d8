// Package validation содержит разбор и проверку пользовательского ввода.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmeshcher/convenience-store/internal/model"
)

var orderItemPattern = regexp.MustCompile(`^\[([^\[\]]+?)-(-?\d+)\]$`)

// ParseOrder разбирает строку заказа вида "[Cola-2],[Chips-1]".
func ParseOrder(input string) ([]model.OrderLine, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty order", model.ErrInvalidOrderSyntax)
	}

	parts := strings.Split(input, ",")
	lines := make([]model.OrderLine, 0, len(parts))

	for _, part := range parts {
		m := orderItemPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, fmt.Errorf("%w: %q", model.ErrInvalidOrderSyntax, part)
		}

		quantity, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", model.ErrInvalidOrderSyntax, part)
		}

		line, err := model.NewOrderLine(m[1], quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}
