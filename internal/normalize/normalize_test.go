package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Arsenal", "arsenal"},
		{"accents", "São Paulo", "sao paulo"},
		{"german umlaut", "Bayern München", "bayern munchen"},
		{"spanish", "Atlético Madrid", "atletico madrid"},
		{"periods removed", "St. Etienne", "st etienne"},
		{"apostrophe removed", "Nott'm Forest", "nottm forest"},
		{"hyphen joins", "Paris Saint-Germain", "paris saintgermain"},
		{"brackets and slash", "Inter (Milan) [IT]/A", "inter milan ita"},
		{"quotes colon semicolon comma", `"Real": Madrid; C,F`, "real madrid cf"},
		{"surrounding whitespace", "  Leeds  ", "leeds"},
		{"inner whitespace kept", "Man  United", "man  united"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.in))
		})
	}
}

func TestKey_Idempotent(t *testing.T) {
	inputs := []string{"São Paulo", "St. Pauli", "Borussia M'gladbach", "  Köln ", "Paris S-G", ""}
	for _, in := range inputs {
		once := Key(in)
		assert.Equal(t, once, Key(once), "normalizing twice should not change %q", in)
	}
}

func TestKey_AccentInsensitive(t *testing.T) {
	assert.Equal(t, Key("Sao Paulo"), Key("São Paulo"))
	assert.Equal(t, Key("Deportivo Alaves"), Key("Deportivo Alavés"))
	assert.NotEqual(t, Key("Internazionale"), Key("Inter Milan"))
}

func TestKey_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, "fortuna dusseldorf", Key("Fortuna Düsseldorf"))
	}
}
