package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchIntentRuleOrder(t *testing.T) {
	tests := []struct {
		name  string
		msg   string
		rules []keywordRule
		want  intent
	}{
		{name: "menu option number", msg: "1", rules: inicioRules, want: intentSchedule},
		{name: "menu keyword", msg: "quiero agendar", rules: inicioRules, want: intentSchedule},
		{name: "menu no match", msg: "hola", rules: inicioRules, want: intentNone},

		{name: "mamografía with accent", msg: "una mamografía por favor", rules: servicioRules, want: intentServiceMammography},
		{name: "densitometria stem", msg: "densitometria", rules: servicioRules, want: intentServiceDensitometry},

		{name: "exact f", msg: "f", rules: sexoRules, want: intentSexFemale},
		{name: "exact m", msg: "m", rules: sexoRules, want: intentSexMale},
		{name: "femenino", msg: "femenino", rules: sexoRules, want: intentSexFemale},
		// masculine rule is first, so a message naming both resolves male
		{name: "both keywords resolve male", msg: "femenino o masculino", rules: sexoRules, want: intentSexMale},
		{name: "bare letter x", msg: "x", rules: sexoRules, want: intentNone},

		{name: "same phone", msg: "este mismo", rules: telefonoRules, want: intentSamePhone},

		{name: "plain si", msg: "si", rules: confirmacionRules, want: intentAffirm},
		// affirmatives run before negatives
		{name: "si with objection", msg: "si, no hay problema", rules: confirmacionRules, want: intentAffirm},
		{name: "plain no", msg: "no gracias", rules: confirmacionRules, want: intentDeny},
		{name: "cancelar", msg: "mejor cancelar", rules: confirmacionRules, want: intentDeny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchIntent(tt.msg, tt.rules))
		})
	}
}
