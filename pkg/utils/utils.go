package utils

import (
	"strings"

	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.New().String()
}

// HasAnySuffix reports whether s ends with any of suffixes. It is a plain
// string suffix test: "s" matches "notes/docs" as well as "main.s".
func HasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
