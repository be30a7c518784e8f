package utils

import "strings"

// ContainsPattern builds a LIKE pattern matching s anywhere in a value.
// Wildcards in s are escaped with '!', so queries must declare ESCAPE '!'.
func ContainsPattern(s string) string {
	replacer := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + replacer.Replace(strings.ToLower(s)) + "%"
}
