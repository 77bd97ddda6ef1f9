package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcoot/kickoff/internal/model"
)

// documentID is a player _id. Players written by this service carry a
// string id; older deployments stored ObjectIds, which read back as hex.
type documentID string

func (id *documentID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	if s, ok := raw.StringValueOK(); ok {
		*id = documentID(s)
		return nil
	}
	if oid, ok := raw.ObjectIDOK(); ok {
		*id = documentID(oid.Hex())
		return nil
	}
	return fmt.Errorf("unsupported _id type %s", t)
}

// idValues lists every stored form the given player id can take
func idValues(id model.PlayerID) bson.A {
	values := bson.A{string(id)}
	if oid, err := primitive.ObjectIDFromHex(string(id)); err == nil {
		values = append(values, oid)
	}
	return values
}

// idFilter matches a player by id in either stored form
func idFilter(id model.PlayerID) bson.D {
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idValues(id)}}}}
}

// playerDocument is the stored shape of a player. Team is null when
// unassigned and clientId is absent when the player has no device.
type playerDocument struct {
	ID        documentID `bson:"_id"`
	Name      string     `bson:"name"`
	HasPaid   bool       `bson:"hasPaid"`
	Team      *string    `bson:"team"`
	ClientID  string     `bson:"clientId,omitempty"`
	CreatedAt time.Time  `bson:"createdAt"`
}

type matchDocument struct {
	ID       string     `bson:"_id"`
	Location string     `bson:"location"`
	Time     *time.Time `bson:"time"`
}

func toPlayerDocument(p *model.Player) *playerDocument {
	doc := &playerDocument{
		ID:        documentID(p.ID),
		Name:      p.Name,
		HasPaid:   p.HasPaid,
		ClientID:  p.ClientID,
		CreatedAt: p.CreatedAt.UTC(),
	}
	if p.Team != model.TeamNone {
		team := string(p.Team)
		doc.Team = &team
	}
	return doc
}

func (d *playerDocument) toModel() *model.Player {
	p := &model.Player{
		ID:        model.PlayerID(d.ID),
		Name:      d.Name,
		HasPaid:   d.HasPaid,
		ClientID:  d.ClientID,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.Team != nil {
		p.Team = model.Team(*d.Team)
	}
	return p
}

func toMatchDocument(m *model.Match) *matchDocument {
	doc := &matchDocument{ID: matchDocumentID, Location: m.Location}
	if m.Time != nil {
		t := m.Time.UTC()
		doc.Time = &t
	}
	return doc
}

func (d *matchDocument) toModel() *model.Match {
	m := &model.Match{Location: d.Location}
	if d.Time != nil {
		t := d.Time.UTC()
		m.Time = &t
	}
	return m
}
