package commands

import (
	"log"
	"strconv"
)

// ParseUserID converts a Discord user snowflake to the numeric identity the
// allow-list is keyed by.
func ParseUserID(userID string) int64 {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		log.Printf("Failed to parse user ID '%s': %v", userID, err)
		return 0
	}
	return id
}
