package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateOrderNo generates a unique order number such as LND-1A2B3C4D
func GenerateOrderNo(prefix string) string {
	if prefix == "" {
		prefix = "LND"
	}
	return prefix + "-" + shortCode()
}

// GenerateProductCode generates a unique laundry service code
func GenerateProductCode() string {
	return "SRV-" + shortCode()
}

func shortCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
