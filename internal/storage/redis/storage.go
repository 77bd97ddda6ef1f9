package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/storage"
)

// ErrTxContention is returned when an optimistic transaction keeps losing
// to concurrent writers
var ErrTxContention = errors.New("redis: too much contention on watched keys")

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// reader is satisfied by both *redis.Client and *redis.Tx
type reader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// watch runs fn inside WATCH on keys, retrying while another client
// modifies a watched key before EXEC
func (s *Storage) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < s.cfg.MaxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTxContention
}

// Player operations

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.ZRevRange(ctx, playersIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.fetchPlayers(ctx, s.client, ids)
}

// fetchPlayers loads the given players in order, skipping any deleted
// between reading the index and fetching the records
func (s *Storage) fetchPlayers(ctx context.Context, r reader, ids []string) ([]*model.Player, error) {
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := r.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			continue
		}
		player, err := decodePlayer([]byte(str))
		if err != nil {
			return nil, fmt.Errorf("decode player: %w", err)
		}
		players = append(players, player)
	}
	return players, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	data, err := encodePlayer(player)
	if err != nil {
		return err
	}

	nameKey := nameIndexKey(player.Name)
	keys := []string{nameKey}
	var clientKey string
	if player.ClientID != "" {
		clientKey = clientIDIndexKey(player.ClientID)
		keys = append(keys, clientKey)
	}

	return s.watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, nameKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ErrNameTaken
		}
		if clientKey != "" {
			n, err = tx.Exists(ctx, clientKey).Result()
			if err != nil {
				return err
			}
			if n > 0 {
				return model.ErrClientIDRegistered
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, playerKey(player.ID), data, 0)
			pipe.Set(ctx, nameKey, string(player.ID), 0)
			if clientKey != "" {
				pipe.Set(ctx, clientKey, string(player.ID), 0)
			}
			pipe.ZAdd(ctx, playersIndexKey(), redis.Z{
				Score:  float64(player.CreatedAt.UnixMilli()),
				Member: string(player.ID),
			})
			return nil
		})
		return err
	}, keys...)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.getPlayer(ctx, s.client, id)
}

func (s *Storage) getPlayer(ctx context.Context, r reader, id model.PlayerID) (*model.Player, error) {
	data, err := r.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return decodePlayer(data)
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	return s.getPlayerByIndex(ctx, nameIndexKey(name))
}

func (s *Storage) GetPlayerByClientID(ctx context.Context, clientID string) (*model.Player, error) {
	return s.getPlayerByIndex(ctx, clientIDIndexKey(clientID))
}

// getPlayerByIndex follows an index key to the player record it names
func (s *Storage) getPlayerByIndex(ctx context.Context, indexKey string) (*model.Player, error) {
	id, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) TogglePaid(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var updated *model.Player
	err := s.watch(ctx, func(tx *redis.Tx) error {
		player, err := s.getPlayer(ctx, tx, id)
		if err != nil {
			return err
		}
		player.HasPaid = !player.HasPaid

		data, err := encodePlayer(player)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, playerKey(id), data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = player
		return nil
	}, playerKey(id))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// queueDelete adds the commands removing a player and its index entries
func queueDelete(ctx context.Context, pipe redis.Pipeliner, player *model.Player) {
	pipe.Del(ctx, playerKey(player.ID))
	pipe.Del(ctx, nameIndexKey(player.Name))
	if player.ClientID != "" {
		pipe.Del(ctx, clientIDIndexKey(player.ClientID))
	}
	pipe.ZRem(ctx, playersIndexKey(), string(player.ID))
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.watch(ctx, func(tx *redis.Tx) error {
		player, err := s.getPlayer(ctx, tx, id)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				return nil
			}
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			queueDelete(ctx, pipe, player)
			return nil
		})
		return err
	}, playerKey(id))
}

func (s *Storage) DeletePlayerByClientID(ctx context.Context, clientID string) (*model.Player, error) {
	clientKey := clientIDIndexKey(clientID)

	var deleted *model.Player
	err := s.watch(ctx, func(tx *redis.Tx) error {
		id, err := tx.Get(ctx, clientKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}
		player, err := s.getPlayer(ctx, tx, model.PlayerID(id))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			queueDelete(ctx, pipe, player)
			return nil
		})
		if err != nil {
			return err
		}
		deleted = player
		return nil
	}, clientKey)
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *Storage) AssignTeams(ctx context.Context, assignment model.TeamAssignment) error {
	return s.watch(ctx, func(tx *redis.Tx) error {
		ids, err := tx.ZRange(ctx, playersIndexKey(), 0, -1).Result()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		// Watch every record too so a concurrent pay toggle is not overwritten
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = playerKey(model.PlayerID(id))
		}
		if err := tx.Watch(ctx, keys...).Err(); err != nil {
			return err
		}

		players, err := s.fetchPlayers(ctx, tx, ids)
		if err != nil {
			return err
		}

		encoded := make(map[model.PlayerID][]byte, len(players))
		for _, p := range players {
			p.Team = assignment.TeamFor(p.ID)
			data, err := encodePlayer(p)
			if err != nil {
				return err
			}
			encoded[p.ID] = data
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for id, data := range encoded {
				pipe.Set(ctx, playerKey(id), data, 0)
			}
			return nil
		})
		return err
	}, playersIndexKey())
}

// Match operations

func (s *Storage) GetMatch(ctx context.Context) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}
	return decodeMatch(data)
}

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := encodeMatch(match)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, matchKey(), data, 0).Err()
}
