package freecodecamp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrShortcutNotFound  = errors.New("shortcut not found")
	errShortcutNotStored = errors.New("shortcut not stored")
)

type ShortURL struct {
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
}

type ShortcutStore interface {
	Get(ctx context.Context, hash string) (string, error)
	PutIfAbsent(ctx context.Context, hash string, originalURL string) error
}

type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type Shortener struct {
	Store    ShortcutStore
	Resolver Resolver
}

func NewShortener(store ShortcutStore) *Shortener {
	return &Shortener{Store: store, Resolver: net.DefaultResolver}
}

func HashURL(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func (s *Shortener) valid(ctx context.Context, raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	if _, err := s.Resolver.LookupHost(ctx, parsed.Hostname()); err != nil {
		log.Debug().Err(err).Str("host", parsed.Hostname()).Msg("Short URL host does not resolve")
		return false
	}

	return true
}

// Shorten stores the url under its sha256 hash. Shortening the same url again returns the same hash
func (s *Shortener) Shorten(ctx context.Context, raw string) (*ShortURL, error) {
	if raw == "" || !s.valid(ctx, raw) {
		return nil, ErrInvalidURL
	}

	hash := HashURL(raw)
	if err := s.Store.PutIfAbsent(ctx, hash, raw); err != nil {
		return nil, err
	}

	return &ShortURL{OriginalURL: raw, ShortURL: hash}, nil
}

func (s *Shortener) Resolve(ctx context.Context, hash string) (string, error) {
	original, err := s.Store.Get(ctx, hash)
	if errors.Is(err, errShortcutNotStored) {
		return "", ErrShortcutNotFound
	}

	return original, err
}

type MemoryShortcutStore struct {
	mutex     sync.RWMutex
	shortcuts map[string]string
}

func NewMemoryShortcutStore() *MemoryShortcutStore {
	return &MemoryShortcutStore{shortcuts: map[string]string{}}
}

func (m *MemoryShortcutStore) Get(ctx context.Context, hash string) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	original, ok := m.shortcuts[hash]
	if !ok {
		return "", errShortcutNotStored
	}

	return original, nil
}

func (m *MemoryShortcutStore) PutIfAbsent(ctx context.Context, hash string, originalURL string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.shortcuts[hash]; !exists {
		m.shortcuts[hash] = originalURL
	}

	return nil
}

type shortcutDocument struct {
	Hash        string `bson:"hash"`
	OriginalURL string `bson:"original_url"`
}

// MongoShortcutStore keeps shortcuts across restarts
type MongoShortcutStore struct {
	Collection *mongo.Collection
}

func NewMongoShortcutStore(instance *database.MongoInstance) *MongoShortcutStore {
	return &MongoShortcutStore{Collection: instance.GetCollection(database.ShortURLsCollection)}
}

func (m *MongoShortcutStore) Get(ctx context.Context, hash string) (string, error) {
	var document shortcutDocument

	err := m.Collection.FindOne(ctx, bson.M{"hash": hash}).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", errShortcutNotStored
	} else if err != nil {
		return "", err
	}

	return document.OriginalURL, nil
}

func (m *MongoShortcutStore) PutIfAbsent(ctx context.Context, hash string, originalURL string) error {
	_, err := m.Collection.UpdateOne(
		ctx,
		bson.M{"hash": hash},
		bson.M{"$setOnInsert": shortcutDocument{Hash: hash, OriginalURL: originalURL}},
		options.Update().SetUpsert(true),
	)

	return err
}
