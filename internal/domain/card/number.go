package card

import (
	"strings"

	"github.com/memberclub/memberclub-core/internal/pkg/randsrc"
)

// NumberPrefix is the fixed leading group of every generated card number.
const NumberPrefix = "4000"

const randomDigits = 12

// NumberGenerator produces formatted card numbers from an injected random
// source. Uniqueness is probabilistic; the backend treats the number as an
// opaque key, not a security token.
type NumberGenerator struct {
	src randsrc.Source
}

func NewNumberGenerator(src randsrc.Source) *NumberGenerator {
	return &NumberGenerator{src: src}
}

// Generate returns a 16-digit number, prefix first, in groups of four
// separated by spaces ("4000 0000 0000 0000").
func (g *NumberGenerator) Generate() string {
	var b strings.Builder
	b.WriteString(NumberPrefix)
	for i := 0; i < randomDigits; i++ {
		// Float64 is in [0,1), so the digit stays in 0-9.
		digit := int(g.src.Float64() * 10)
		b.WriteByte(byte('0' + digit))
	}
	return formatNumber(b.String())
}

func formatNumber(digits string) string {
	groups := make([]string, 0, len(digits)/4)
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		groups = append(groups, digits[i:end])
	}
	return strings.Join(groups, " ")
}
