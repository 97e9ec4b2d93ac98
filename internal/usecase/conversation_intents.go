package usecase

import "strings"

// intent is what a caller's message means for the current dialogue step.
type intent int

const (
	intentNone intent = iota
	intentSchedule
	intentServiceMammography
	intentServiceDensitometry
	intentSexMale
	intentSexFemale
	intentSamePhone
	intentAffirm
	intentDeny
)

// keywordRule maps message patterns to an intent. Substrings match anywhere
// in the lowercased message; exact entries must equal the whole message.
type keywordRule struct {
	substrings []string
	exact      []string
	intent     intent
}

// matchIntent walks the rules in order and returns the first hit. Rule order
// is part of the contract: earlier rules claim overlapping inputs.
func matchIntent(msg string, rules []keywordRule) intent {
	for _, rule := range rules {
		for _, sub := range rule.substrings {
			if strings.Contains(msg, sub) {
				return rule.intent
			}
		}
		for _, ex := range rule.exact {
			if msg == ex {
				return rule.intent
			}
		}
	}
	return intentNone
}

// inicioRules detect booking intent from the main menu.
var inicioRules = []keywordRule{
	{substrings: []string{"1", "agendar", "cita"}, intent: intentSchedule},
}

// servicioRules pick the exam. Prefix stems tolerate accent and suffix
// variations ("mamografía", "mamografia", "una mamografia por favor").
var servicioRules = []keywordRule{
	{substrings: []string{"mamograf"}, intent: intentServiceMammography},
	{substrings: []string{"densito"}, intent: intentServiceDensitometry},
}

// sexoRules resolve biological sex. Masculine goes first: when a message
// carries keywords of both ("femenino o masculino"), masculine wins, which
// matches the behavior callers have seen so far.
var sexoRules = []keywordRule{
	{substrings: []string{"masc", "hombre"}, exact: []string{"m"}, intent: intentSexMale},
	{substrings: []string{"fem", "mujer"}, exact: []string{"f"}, intent: intentSexFemale},
}

// telefonoRules detect "use my WhatsApp number".
var telefonoRules = []keywordRule{
	{substrings: []string{"este", "mismo"}, intent: intentSamePhone},
}

// confirmacionRules close the flow. Affirmatives are checked before
// negatives, so "si, no hay problema" confirms.
var confirmacionRules = []keywordRule{
	{substrings: []string{"si", "sí", "confirmo", "ok"}, intent: intentAffirm},
	{substrings: []string{"no", "cancelar"}, intent: intentDeny},
}

// documentTypes is the accepted document type enumeration, in match order.
var documentTypes = []string{"cc", "ce", "pp", "ti"}
