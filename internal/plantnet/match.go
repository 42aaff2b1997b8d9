package plantnet

import "strings"

// Match is the interpreted top candidate of an identification.
type Match struct {
	CommonName     string  `json:"commonName"`
	ScientificName string  `json:"scientificName"`
	Score          float64 `json:"score"`
}

// BestMatch returns the top candidate when its score clears the confidence
// threshold. Below or at the threshold the identification counts as
// unconfident and no match is returned.
func BestMatch(resp *IdentifyResponse) (*Match, bool) {
	if resp == nil || len(resp.Results) == 0 {
		return nil, false
	}
	top := resp.Results[0]
	if top.Score <= ConfidenceThreshold {
		return nil, false
	}

	sci := top.Species.ScientificNameWithoutAuthor
	common := ""
	if len(top.Species.CommonNames) > 0 {
		common = top.Species.CommonNames[0]
	}
	if common == "" {
		// fall back to the genus
		common = strings.SplitN(sci, " ", 2)[0]
	}

	return &Match{
		CommonName:     common,
		ScientificName: sci,
		Score:          top.Score,
	}, true
}
