package settlement

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalRe  = regexp.MustCompile(`^\d+(\.\d+)?$`)
	fractionRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
)

// ParseOdds converte um texto de odds em odds decimais.
// Aceita decimal puro ("3.5" => 3.5) ou fracionário ("5/1" => 6.0, isto é,
// 1 + num/den). Qualquer outro shape, inclusive denominador zero, é inválido.
func ParseOdds(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if decimalRe.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	m := fractionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	num, _ := strconv.ParseFloat(m[1], 64)
	den, _ := strconv.ParseFloat(m[2], 64)
	if den == 0 || num == 0 {
		// 0/x seria odd decimal 1.0: aposta sem retorno, tratada como ausente
		return 0, false
	}

	return 1 + num/den, true
}

// ParseFraction converte um texto em razão direta, sem o +1 das odds.
// Usado pra configurar a fração each-way: "1/4" => 0.25, "0.25" => 0.25.
func ParseFraction(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if decimalRe.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	m := fractionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	num, _ := strconv.ParseFloat(m[1], 64)
	den, _ := strconv.ParseFloat(m[2], 64)
	if den == 0 {
		return 0, false
	}

	return num / den, true
}
