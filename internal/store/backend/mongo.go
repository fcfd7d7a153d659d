package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRecord is one collection as stored in Mongo. The encoded sequence is
// kept verbatim so every backend round-trips identical bytes.
type mongoRecord struct {
	Name      string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Mongo stores each collection as a single record keyed by its name.
type Mongo struct {
	col   *mongo.Collection
	owned bool // Close disconnects the client
}

// NewMongo wraps the Mongo collection that holds the encoded collections.
// Caller owns the client and disconnects it.
func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

func (m *Mongo) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var rec mongoRecord
	err := m.col.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return []byte(rec.Data), nil
}

func (m *Mongo) Write(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	rec := mongoRecord{Name: name, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}

// Close disconnects the client only when Open dialed it; a client passed to
// NewMongo stays with its owner.
func (m *Mongo) Close() error {
	if !m.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.col.Database().Client().Disconnect(ctx)
}
