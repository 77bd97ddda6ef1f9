package redis

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mcoot/kickoff/internal/model"
)

// playerRecord is the msgpack layout of a stored player
type playerRecord struct {
	ID        string    `msgpack:"id"`
	Name      string    `msgpack:"name"`
	HasPaid   bool      `msgpack:"has_paid"`
	Team      string    `msgpack:"team,omitempty"`
	ClientID  string    `msgpack:"client_id,omitempty"`
	CreatedAt time.Time `msgpack:"created_at"`
}

type matchRecord struct {
	Location string     `msgpack:"location"`
	Time     *time.Time `msgpack:"time"`
}

func encodePlayer(p *model.Player) ([]byte, error) {
	return msgpack.Marshal(&playerRecord{
		ID:        string(p.ID),
		Name:      p.Name,
		HasPaid:   p.HasPaid,
		Team:      string(p.Team),
		ClientID:  p.ClientID,
		CreatedAt: p.CreatedAt.UTC(),
	})
}

func decodePlayer(data []byte) (*model.Player, error) {
	var rec playerRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &model.Player{
		ID:        model.PlayerID(rec.ID),
		Name:      rec.Name,
		HasPaid:   rec.HasPaid,
		Team:      model.Team(rec.Team),
		ClientID:  rec.ClientID,
		CreatedAt: rec.CreatedAt.UTC(),
	}, nil
}

func encodeMatch(m *model.Match) ([]byte, error) {
	rec := matchRecord{Location: m.Location}
	if m.Time != nil {
		t := m.Time.UTC()
		rec.Time = &t
	}
	return msgpack.Marshal(&rec)
}

func decodeMatch(data []byte) (*model.Match, error) {
	var rec matchRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	m := &model.Match{Location: rec.Location}
	if rec.Time != nil {
		t := rec.Time.UTC()
		m.Time = &t
	}
	return m, nil
}
