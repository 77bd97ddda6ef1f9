package redis

import (
	"fmt"

	"github.com/mcoot/kickoff/internal/model"
)

// Key prefix for all roster data
const keyPrefix = "kickoff"

// playerKey returns the Redis key for a Player record
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the ZSET of player IDs scored by creation time
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// nameIndexKey returns the Redis key for the name -> player_id index
func nameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", keyPrefix, name)
}

// clientIDIndexKey returns the Redis key for the client_id -> player_id index
func clientIDIndexKey(clientID string) string {
	return fmt.Sprintf("%s:idx:client_id:%s", keyPrefix, clientID)
}

// matchKey returns the Redis key for the singleton match
func matchKey() string {
	return fmt.Sprintf("%s:match", keyPrefix)
}
