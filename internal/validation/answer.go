package validation

import (
	"fmt"
	"strings"

	"github.com/mmeshcher/convenience-store/internal/model"
)

// ParseAnswer разбирает ответ Y/N без учёта регистра.
func ParseAnswer(input string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", model.ErrAmbiguousConfirmationInput, input)
	}
}
