package dialogue

import (
	"regexp"
	"strings"
)

// Affirmation/negation and intent detection is lexical: fixed token sets
// and phrase lists, no model involved. Token matching avoids regexp word
// boundaries because Go's \b is ASCII-only and misfires on accented
// Spanish ("sí").

var cancelWords = map[string]bool{
	"cancelar": true,
	"menu":     true,
	"menú":     true,
	"salir":    true,
	"inicio":   true,
}

var greetingTokens = map[string]bool{
	"hola":   true,
	"buenas": true,
}

var greetingPhrases = []string{
	"buenos dias", "buenos días", "buenas tardes", "buenas noches",
}

var yesTokens = map[string]bool{
	"si": true, "sí": true, "correcto": true, "confirmo": true,
	"ok": true, "vale": true,
}

var yesPhrases = []string{"de acuerdo", "así es", "asi es"}

var noTokens = map[string]bool{
	"no": true, "negativo": true, "cambiar": true, "otra": true,
	"equivocado": true,
}

var noPhrases = []string{"no es"}

var portabilityPhrases = []string{
	"me interesa", "quiero cambiarme", "quiero cambiar", "cambiarme",
	"qué necesito", "que necesito", "necesito cambiar", "quiero portar",
	"portabilidad",
}

var nonDigitRe = regexp.MustCompile(`\D`)

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '.', ';', ':', '!', '¡', '?', '¿':
			return true
		}
		return false
	})
}

func hasToken(text string, set map[string]bool) bool {
	for _, tok := range tokens(text) {
		if set[tok] {
			return true
		}
	}
	return false
}

func hasPhrase(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func isCancel(text string) bool {
	return cancelWords[strings.ToLower(strings.TrimSpace(text))]
}

func isGreeting(text string) bool {
	return hasToken(text, greetingTokens) || hasPhrase(text, greetingPhrases)
}

func isYes(text string) bool {
	return hasToken(text, yesTokens) || hasPhrase(text, yesPhrases)
}

func isNo(text string) bool {
	return hasToken(text, noTokens) || hasPhrase(text, noPhrases)
}

func isPortabilityInterest(text string) bool {
	return hasPhrase(text, portabilityPhrases)
}

// onlyDigits strips every non-digit rune.
func onlyDigits(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// isPhone reports whether s holds exactly ten digits after normalization.
func isPhone(s string) bool {
	d := onlyDigits(s)
	return len(d) == 10
}

// debugCommand recognizes the literal model-command prefix and returns the
// remainder of the text.
func debugCommand(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !strings.HasPrefix(lower, debugPrefix) {
		return "", false
	}
	return strings.TrimSpace(text[len(debugPrefix):]), true
}
