package redis

import (
	"fmt"
	"strings"

	"github.com/mcoot/potatofarm/internal/model"
)

// Key prefix for all potato farm data
const keyPrefix = "potatofarm"

// accountKey returns the Redis key for an Account
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> account_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// emailIndexKey returns the Redis key for the email -> account_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, strings.ToLower(email))
}

// saveKey returns the Redis key for an account's GameSave
func saveKey(id model.AccountID) string {
	return fmt.Sprintf("%s:save:%s", keyPrefix, id)
}

// leaderboardKey returns the Redis key for the all-time potatoes ZSET
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

// deviceKey returns the Redis key for a device-local value
func deviceKey(deviceID, key string) string {
	return fmt.Sprintf("%s:device:%s:%s", keyPrefix, deviceID, key)
}
