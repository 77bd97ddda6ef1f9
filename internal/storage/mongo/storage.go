// Package mongo stores players and the match in MongoDB, one collection each.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/storage"
)

const (
	playerCollectionName = "players"
	matchCollectionName  = "match"

	nameIndexName     = "name_unique"
	clientIDIndexName = "clientId_unique"

	// the match collection holds at most this one document
	matchDocumentID = "current"
)

// Storage is a MongoDB-backed implementation of the storage interface
type Storage struct {
	client *mongo.Client
	db     *mongo.Database

	playerCollection *mongo.Collection
	matchCollection  *mongo.Collection
}

// New connects to MongoDB and ensures the player indexes exist
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s, err := NewWithDatabase(ctx, client.Database(cfg.Database))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewWithDatabase creates a storage over an existing database handle (for testing)
func NewWithDatabase(ctx context.Context, db *mongo.Database) (*Storage, error) {
	s := &Storage{
		client:           db.Client(),
		db:               db,
		playerCollection: db.Collection(playerCollectionName),
		matchCollection:  db.Collection(matchCollectionName),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.playerCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName(nameIndexName).SetUnique(true),
		},
		{
			// players without a device carry no clientId and must not collide
			Keys: bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().
				SetName(clientIDIndexName).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "clientId", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("create player indexes: %w", err)
	}
	return nil
}

// Close disconnects the client
func (s *Storage) Close() error {
	return s.client.Disconnect(context.Background())
}

// Ping checks the MongoDB connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// conflictError maps a duplicate key error to the uniqueness rule it broke
func conflictError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if strings.Contains(err.Error(), clientIDIndexName) {
		return model.ErrClientIDRegistered
	}
	return model.ErrNameTaken
}

// Player operations

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.playerCollection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []playerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	players := make([]*model.Player, len(docs))
	for i := range docs {
		players[i] = docs[i].toModel()
	}
	return players, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.playerCollection.InsertOne(ctx, toPlayerDocument(player))
	if err != nil {
		return conflictError(err)
	}
	return nil
}

func (s *Storage) findOnePlayer(ctx context.Context, filter bson.D) (*model.Player, error) {
	var doc playerDocument
	err := s.playerCollection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.findOnePlayer(ctx, idFilter(id))
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	return s.findOnePlayer(ctx, bson.D{{Key: "name", Value: name}})
}

func (s *Storage) GetPlayerByClientID(ctx context.Context, clientID string) (*model.Player, error) {
	return s.findOnePlayer(ctx, bson.D{{Key: "clientId", Value: clientID}})
}

func (s *Storage) TogglePaid(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "hasPaid", Value: bson.D{{Key: "$not", Value: bson.A{"$hasPaid"}}}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc playerDocument
	err := s.playerCollection.FindOneAndUpdate(ctx, idFilter(id), update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	_, err := s.playerCollection.DeleteOne(ctx, idFilter(id))
	return err
}

func (s *Storage) DeletePlayerByClientID(ctx context.Context, clientID string) (*model.Player, error) {
	var doc playerDocument
	err := s.playerCollection.FindOneAndDelete(ctx, bson.D{{Key: "clientId", Value: clientID}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

// AssignTeams rewrites every player's team with one pipeline update.
// Team B is matched first so it wins if an id appears in both lists.
func (s *Storage) AssignTeams(ctx context.Context, assignment model.TeamAssignment) error {
	teamA := bson.A{}
	teamB := bson.A{}
	for id, team := range assignment {
		switch team {
		case model.TeamA:
			teamA = append(teamA, idValues(id)...)
		case model.TeamB:
			teamB = append(teamB, idValues(id)...)
		}
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "team", Value: bson.D{{Key: "$switch", Value: bson.D{
				{Key: "branches", Value: bson.A{
					bson.D{
						{Key: "case", Value: bson.D{{Key: "$in", Value: bson.A{"$_id", teamB}}}},
						{Key: "then", Value: string(model.TeamB)},
					},
					bson.D{
						{Key: "case", Value: bson.D{{Key: "$in", Value: bson.A{"$_id", teamA}}}},
						{Key: "then", Value: string(model.TeamA)},
					},
				}},
				{Key: "default", Value: nil},
			}}}},
		}}},
	}

	_, err := s.playerCollection.UpdateMany(ctx, bson.D{}, update)
	if err != nil {
		return fmt.Errorf("assign teams: %w", err)
	}
	return nil
}

// Match operations

func (s *Storage) GetMatch(ctx context.Context) (*model.Match, error) {
	var doc matchDocument
	err := s.matchCollection.FindOne(ctx, bson.D{{Key: "_id", Value: matchDocumentID}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	_, err := s.matchCollection.ReplaceOne(
		ctx,
		bson.D{{Key: "_id", Value: matchDocumentID}},
		toMatchDocument(match),
		options.Replace().SetUpsert(true),
	)
	return err
}
