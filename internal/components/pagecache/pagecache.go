package pagecache

import (
	"errors"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
)

var ErrPageNotFound = badger.ErrKeyNotFound

const normalizeFlags = purell.FlagsSafe |
	purell.FlagSortQuery |
	purell.FlagRemoveFragment |
	purell.FlagRemoveDuplicateSlashes

// Cache stores page bodies in badger keyed by normalized url, entries
// expire after the configured lifetime.
type Cache struct {
	db       *badger.DB
	lifetime time.Duration
}

// Open opens (or creates) a cache rooted at dir, an empty dir keeps the
// cache in memory.
func Open(dir string, lifetime time.Duration) (Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return Cache{}, err
	}
	return Cache{db: db, lifetime: lifetime}, nil
}

func (c Cache) Close() error {
	return c.db.Close()
}

// Key normalizes a url so that equivalent spellings share one entry.
func Key(rawUrl string) (string, error) {
	return purell.NormalizeURLString(rawUrl, normalizeFlags)
}

func (c Cache) Get(rawUrl string) ([]byte, error) {
	key, err := Key(rawUrl)
	if err != nil {
		return nil, err
	}

	var contents []byte
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		contents, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return contents, nil
}

func (c Cache) Set(rawUrl string, contents []byte) error {
	key, err := Key(rawUrl)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), contents)
		if c.lifetime > 0 {
			entry = entry.WithTTL(c.lifetime)
		}
		return txn.SetEntry(entry)
	})
}
