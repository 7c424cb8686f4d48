package respond

import (
	"strings"

	"github.com/danielgtaylor/huma/v2/negotiation"
)

// Problem types ordered most specific first.
var (
	jsonProblemTypes = []string{contentTypeProblemJSON, "application/json"}
	cborProblemTypes = []string{contentTypeProblemCBOR, "application/cbor"}
)

// noMatch is never equal to an Accept entry since entries are split on commas.
const noMatch = ","

// acceptsCBOR reports whether the Accept header ranks a CBOR media type above
// every JSON one. Ranking is by q-value, then specificity (problem+ types beat
// their base types). Ties and unsupported types fall back to JSON.
func acceptsCBOR(accept string) bool {
	if accept == "" {
		return false
	}
	accept = strings.ToLower(accept)
	for i, c := range cborProblemTypes {
		// SelectQValue lets the first allowed entry win ties, even at q=0.
		if negotiation.SelectQValue(accept, []string{noMatch, c}) != c {
			continue
		}
		if outranksJSON(accept, c, i) {
			return true
		}
	}
	return false
}

// outranksJSON reports whether the CBOR type at rank ci beats every JSON type.
// The allowed order decides ties: the more specific type wins, JSON otherwise.
func outranksJSON(accept, cborType string, ci int) bool {
	for ji, j := range jsonProblemTypes {
		allowed := []string{j, cborType}
		if ci < ji {
			allowed = []string{cborType, j}
		}
		if negotiation.SelectQValue(accept, allowed) != cborType {
			return false
		}
	}
	return true
}
