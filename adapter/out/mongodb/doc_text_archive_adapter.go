package mongodb

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// =============================================================================
// MongoDB Text Archive Adapter
// =============================================================================

const (
	collectionDocumentTexts = "document_texts"

	// Compression threshold - only compress if content is larger than this
	compressionThreshold = 1024 // 1KB

	// Archived texts expire after this many days
	archiveTTLDays = 30
)

// TextArchiveAdapter implements out.TextArchive using MongoDB. All calls
// run through a circuit breaker so a down archive degrades to skipped
// writes instead of slowing every upload.
type TextArchiveAdapter struct {
	db         *mongo.Database
	collection *mongo.Collection
	cb         *gobreaker.CircuitBreaker
}

// NewTextArchiveAdapter creates a new MongoDB text archive adapter.
func NewTextArchiveAdapter(db *mongo.Database) *TextArchiveAdapter {
	cbSettings := gobreaker.Settings{
		Name:        "mongo-text-archive",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &TextArchiveAdapter{
		db:         db,
		collection: db.Collection(collectionDocumentTexts),
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *TextArchiveAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "document_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// =============================================================================
// Document Model
// =============================================================================

// textDocument represents the MongoDB document structure.
type textDocument struct {
	DocumentID   string `bson:"document_id"`
	Text         []byte `bson:"text"`
	IsCompressed bool   `bson:"is_compressed"`

	OriginalSize int64 `bson:"original_size"`

	ArchivedAt time.Time `bson:"archived_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
}

// Store saves the extracted text for a document, compressing large blobs.
func (a *TextArchiveAdapter) Store(ctx context.Context, documentID uuid.UUID, text string) error {
	content := []byte(text)
	compressed := false

	if len(content) > compressionThreshold {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(content); err != nil {
			return fmt.Errorf("failed to compress text: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to compress text: %w", err)
		}
		content = buf.Bytes()
		compressed = true
	}

	now := time.Now().UTC()
	doc := textDocument{
		DocumentID:   documentID.String(),
		Text:         content,
		IsCompressed: compressed,
		OriginalSize: int64(len(text)),
		ArchivedAt:   now,
		ExpiresAt:    now.AddDate(0, 0, archiveTTLDays),
	}

	_, err := a.cb.Execute(func() (interface{}, error) {
		opts := options.Replace().SetUpsert(true)
		return a.collection.ReplaceOne(ctx, bson.M{"document_id": doc.DocumentID}, doc, opts)
	})
	if err != nil {
		return fmt.Errorf("failed to archive text: %w", err)
	}

	return nil
}

// Fetch returns the archived text for a document, or "" when not archived.
func (a *TextArchiveAdapter) Fetch(ctx context.Context, documentID uuid.UUID) (string, error) {
	result, err := a.cb.Execute(func() (interface{}, error) {
		var doc textDocument
		err := a.collection.FindOne(ctx, bson.M{"document_id": documentID.String()}).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &doc, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch archived text: %w", err)
	}
	if result == nil {
		return "", nil
	}

	doc := result.(*textDocument)
	if !doc.IsCompressed {
		return string(doc.Text), nil
	}

	gz, err := gzip.NewReader(bytes.NewReader(doc.Text))
	if err != nil {
		return "", fmt.Errorf("failed to decompress archived text: %w", err)
	}
	defer gz.Close()

	plain, err := io.ReadAll(gz)
	if err != nil {
		return "", fmt.Errorf("failed to decompress archived text: %w", err)
	}

	return string(plain), nil
}
