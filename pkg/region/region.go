// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package region maps the free-text city a participant typed at registration
// to one of the five Brazilian macro-regions.
package region

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
)

const (
	North       = "norte"
	Northeast   = "nordeste"
	CentralWest = "centro-oeste"
	Southeast   = "sudeste"
	South       = "sul"
	Unknown     = constants.UnknownRegion
)

type rule struct {
	keyword string
	region  string
}

// cities are tried before states so "sao paulo" resolves before any shorter
// keyword is tried.
var cities = []rule{
	{"sao paulo", Southeast}, {"rio de janeiro", Southeast}, {"belo horizonte", Southeast},
	{"campinas", Southeast}, {"santos", Southeast}, {"guarulhos", Southeast},
	{"sao jose dos campos", Southeast}, {"ribeirao preto", Southeast}, {"sorocaba", Southeast},
	{"niteroi", Southeast}, {"uberlandia", Southeast}, {"juiz de fora", Southeast},
	{"vitoria", Southeast}, {"vila velha", Southeast}, {"sao carlos", Southeast},
	{"curitiba", South}, {"porto alegre", South}, {"florianopolis", South},
	{"londrina", South}, {"maringa", South}, {"joinville", South},
	{"blumenau", South}, {"caxias do sul", South}, {"pelotas", South}, {"santa maria", South},
	{"salvador", Northeast}, {"recife", Northeast}, {"fortaleza", Northeast},
	{"natal", Northeast}, {"joao pessoa", Northeast}, {"maceio", Northeast},
	{"aracaju", Northeast}, {"teresina", Northeast}, {"sao luis", Northeast},
	{"campina grande", Northeast}, {"feira de santana", Northeast},
	{"manaus", North}, {"belem", North}, {"porto velho", North}, {"rio branco", North},
	{"macapa", North}, {"boa vista", North}, {"palmas", North}, {"santarem", North},
	{"brasilia", CentralWest}, {"goiania", CentralWest}, {"cuiaba", CentralWest},
	{"campo grande", CentralWest}, {"anapolis", CentralWest},
}

var states = []rule{
	{"sao paulo", Southeast}, {"rio de janeiro", Southeast}, {"distrito federal", CentralWest},
	{"minas gerais", Southeast}, {"espirito santo", Southeast},
	{"rio grande do sul", South}, {"santa catarina", South}, {"parana", South},
	{"bahia", Northeast}, {"pernambuco", Northeast}, {"ceara", Northeast},
	{"rio grande do norte", Northeast}, {"paraiba", Northeast}, {"alagoas", Northeast},
	{"sergipe", Northeast}, {"piaui", Northeast}, {"maranhao", Northeast},
	{"amazonas", North}, {"para", North}, {"rondonia", North}, {"acre", North},
	{"amapa", North}, {"roraima", North}, {"tocantins", North},
	{"goias", CentralWest}, {"mato grosso do sul", CentralWest}, {"mato grosso", CentralWest},
}

// stateCodes come last since two letters are the most ambiguous keywords.
var stateCodes = []rule{
	{"sp", Southeast}, {"rj", Southeast}, {"mg", Southeast}, {"es", Southeast},
	{"pr", South}, {"sc", South}, {"rs", South},
	{"ba", Northeast}, {"pe", Northeast}, {"ce", Northeast}, {"rn", Northeast},
	{"pb", Northeast}, {"al", Northeast}, {"se", Northeast}, {"pi", Northeast}, {"ma", Northeast},
	{"am", North}, {"pa", North}, {"ro", North}, {"ac", North},
	{"ap", North}, {"rr", North}, {"to", North},
	{"df", CentralWest}, {"go", CentralWest}, {"mt", CentralWest}, {"ms", CentralWest},
}

// rules are evaluated in order, first match wins.
var rules = concat(cities, states, stateCodes)

// stateSuffixes maps the exact normalized name or code of every state.
var stateSuffixes = func() map[string]string {
	out := make(map[string]string, len(states)+len(stateCodes))
	for _, r := range concat(states, stateCodes) {
		out[r.keyword] = r.region
	}
	return out
}()

func concat(groups ...[]rule) []rule {
	var out []rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// stateSeparators split "city, state" and "city - state".
const stateSeparators = ",-/"

// Classify returns the region of a city, or "desconhecida" when no rule matches.
// A state written after the last comma, dash or slash wins over any city name
// before it, so "Campina Grande do Sul, PR" is in the south.
func Classify(city string) string {
	normalized := Normalize(city)
	if normalized == "" {
		return Unknown
	}

	if i := strings.LastIndexAny(city, stateSeparators); i >= 0 {
		if r, ok := stateSuffixes[Normalize(city[i+1:])]; ok {
			return r
		}
	}

	padded := " " + normalized + " "
	for _, r := range rules {
		if strings.Contains(padded, " "+r.keyword+" ") {
			return r.region
		}
	}

	return Unknown
}

// IsKnown reports whether region is one of the five buckets.
func IsKnown(region string) bool {
	return region != "" && region != Unknown
}

// Normalize case-folds, strips diacritics and reduces every run of
// non alphanumeric characters to a single space.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
