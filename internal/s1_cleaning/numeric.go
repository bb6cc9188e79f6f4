package s1_cleaning

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// opsSentinel is the SCR.data placeholder for "15 or fewer operations".
const opsSentinel = "<= 15"

// parseAmount parses a Brazilian-formatted amount ("1.234,56") into a float.
// Unparsable values become NaN, never zero: o valor permanece nulo no registro
// e só vira 0 na soma agregada.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	// Remove separador de milhar, troca vírgula decimal por ponto
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseOperationCount parses numero_de_operacoes. The "<= 15" sentinel maps
// to the literal 15; any other parse failure coerces to 0.
// Returns (value, sentinel seen, coerced to zero).
func parseOperationCount(s string) (int32, bool, bool) {
	trimmed := strings.TrimSpace(s)
	sentinel := strings.Contains(trimmed, opsSentinel)
	if sentinel {
		trimmed = strings.ReplaceAll(trimmed, opsSentinel, "15")
	}

	v, err := strconv.ParseInt(strings.TrimSpace(trimmed), 10, 32)
	if err != nil {
		return 0, sentinel, true
	}
	return int32(v), sentinel, false
}

// dateLayouts cover the formats seen across monthly extracts.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01",
}

// parseDate parses data_base and normalizes it to midnight UTC.
// Só o dia importa: a agregação é mensal.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
