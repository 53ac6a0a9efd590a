package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell-studio/inkwell/pkg/errors"
)

// MongoStore persists documents in MongoDB for multi-instance deployments.
// Scenes are stored as raw JSON strings rather than BSON subdocuments so
// the wire format stays byte-identical to what the renderer consumes.
type MongoStore struct {
	client    *mongo.Client
	docs      *mongo.Collection
	versions  *mongo.Collection
	ownClient bool
}

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI      string // connection string, e.g. mongodb://localhost:27017
	Database string // defaults to "inkwell"
}

// mongoDoc is the documents collection shape.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	Versions  int       `bson:"versions"`
}

// mongoVersion is the versions collection shape. Seq preserves append
// order independent of clock resolution.
type mongoVersion struct {
	ID        string    `bson:"_id"`
	DocID     string    `bson:"doc_id"`
	Seq       int       `bson:"seq"`
	Scene     string    `bson:"scene"`
	Thumbnail []byte    `bson:"thumbnail,omitempty"`
	Reason    string    `bson:"reason,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// NewMongoStore connects to MongoDB and prepares the collections.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo URI is required")
	}
	dbName := cfg.Database
	if dbName == "" {
		dbName = "inkwell"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:    client,
		docs:      db.Collection("documents"),
		versions:  db.Collection("versions"),
		ownClient: true,
	}
	_, err = s.versions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "doc_id", Value: 1}, {Key: "seq", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create version index")
	}
	return s, nil
}

func (s *MongoStore) CreateDocument(ctx context.Context, name string) (*Document, error) {
	now := time.Now().UTC()
	rec := mongoDoc{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.docs.InsertOne(ctx, rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "insert document")
	}
	return docFromMongo(rec), nil
}

func (s *MongoStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	var rec mongoDoc
	err := s.docs.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "find document")
	}
	return docFromMongo(rec), nil
}

func (s *MongoStore) ListDocuments(ctx context.Context) ([]*Document, error) {
	cursor, err := s.docs.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}
	defer cursor.Close(ctx)

	var docs []*Document
	for cursor.Next(ctx) {
		var rec mongoDoc
		if err := cursor.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode document")
		}
		docs = append(docs, docFromMongo(rec))
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}
	return docs, nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.versions.DeleteMany(ctx, bson.M{"doc_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete versions")
	}
	if _, err := s.docs.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete document")
	}
	return nil
}

func (s *MongoStore) AppendVersion(ctx context.Context, docID string, v *Version) error {
	var doc mongoDoc
	err := s.docs.FindOne(ctx, bson.M{"_id": docID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", docID)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "find document")
	}

	rec := mongoVersion{
		ID:        v.ID,
		DocID:     docID,
		Seq:       doc.Versions,
		Scene:     string(v.Scene),
		Thumbnail: v.Thumbnail,
		Reason:    v.Reason,
		CreatedAt: v.CreatedAt,
	}
	if _, err := s.versions.InsertOne(ctx, rec); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "insert version")
	}
	_, err = s.docs.UpdateOne(ctx, bson.M{"_id": docID}, bson.M{
		"$inc": bson.M{"versions": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "update document")
	}
	return nil
}

func (s *MongoStore) ListVersions(ctx context.Context, docID string) ([]*Version, error) {
	cursor, err := s.versions.Find(ctx, bson.M{"doc_id": docID},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list versions")
	}
	defer cursor.Close(ctx)

	var history []*Version
	for cursor.Next(ctx) {
		var rec mongoVersion
		if err := cursor.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode version")
		}
		history = append(history, versionFromMongo(rec))
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list versions")
	}
	return history, nil
}

func (s *MongoStore) GetVersion(ctx context.Context, docID, versionID string) (*Version, error) {
	var rec mongoVersion
	err := s.versions.FindOne(ctx, bson.M{"_id": versionID, "doc_id": docID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "find version")
	}
	return versionFromMongo(rec), nil
}

func (s *MongoStore) LatestVersion(ctx context.Context, docID string) (*Version, error) {
	var rec mongoVersion
	err := s.versions.FindOne(ctx, bson.M{"doc_id": docID},
		options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "find latest version")
	}
	return versionFromMongo(rec), nil
}

func (s *MongoStore) Close() error {
	if !s.ownClient {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func docFromMongo(rec mongoDoc) *Document {
	return &Document{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Versions:  rec.Versions,
	}
}

func versionFromMongo(rec mongoVersion) *Version {
	return &Version{
		ID:        rec.ID,
		Scene:     json.RawMessage(rec.Scene),
		Thumbnail: rec.Thumbnail,
		Reason:    rec.Reason,
		CreatedAt: rec.CreatedAt,
	}
}

var _ Store = (*MongoStore)(nil)
