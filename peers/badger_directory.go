package peers

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec"
	"github.com/dgraph-io/badger"
)

// peerKeyPrefix namespaces peer rows in the shared badger keyspace, so this
// store could later share a db handle with other directory-style state
// without key collisions.
const peerKeyPrefix = "peer/"

func peerKey(addr string) []byte {
	return []byte(fmt.Sprintf("%s%s", peerKeyPrefix, addr))
}

// BadgerDirectory is a Directory whose peer set survives a restart. It
// persists PeerEntry rows in a badger KV store; this is the directory's
// own address book, not the block/proposal storage this core otherwise
// leaves out of scope.
type BadgerDirectory struct {
	*StaticDirectory

	db   *badger.DB
	path string
}

// NewBadgerDirectory opens (or creates) the badger store at path, loads
// any previously persisted peers into the in-memory StaticDirectory, and
// returns a directory that keeps both in sync on every SetPeers/AddPeer.
func NewBadgerDirectory(self PeerEntry, key *btcec.PrivateKey, grpcPort int, path string) (*BadgerDirectory, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	d := &BadgerDirectory{
		StaticDirectory: NewStaticDirectory(self, key, grpcPort, nil),
		db:              db,
		path:            path,
	}

	entries, err := d.loadFromDB()
	if err != nil {
		db.Close()
		return nil, err
	}
	d.StaticDirectory.SetPeers(entries)

	return d, nil
}

func (d *BadgerDirectory) loadFromDB() ([]PeerEntry, error) {
	var entries []PeerEntry
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(peerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := append([]byte{}, item.Key()...)
			var val []byte
			if err := item.Value(func(v []byte) error {
				val = append([]byte{}, v...)
				return nil
			}); err != nil {
				return err
			}
			entries = append(entries, PeerEntry{
				NetAddr:   string(key[len(prefix):]),
				PubKeyHex: string(val),
			})
		}
		return nil
	})
	return entries, err
}

// AddPeer persists entry and then makes it visible to IPList/Entries.
func (d *BadgerDirectory) AddPeer(entry PeerEntry) error {
	if err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(peerKey(entry.NetAddr), []byte(entry.PubKeyHex))
	}); err != nil {
		return err
	}

	d.mu.Lock()
	d.peers.AddPeer(entry)
	d.mu.Unlock()
	return nil
}

// RemovePeer deletes addr from both the db and the in-memory set.
func (d *BadgerDirectory) RemovePeer(addr string) error {
	if err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(peerKey(addr))
	}); err != nil {
		return err
	}

	d.mu.Lock()
	d.peers.RemovePeer(addr)
	d.mu.Unlock()
	return nil
}

// SetPeers replaces the persisted peer set wholesale, then the in-memory
// one. Used to seed a directory from a static peers.json on first boot.
func (d *BadgerDirectory) SetPeers(entries []PeerEntry) error {
	if err := d.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		prefix := []byte(peerKeyPrefix)
		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, append([]byte{}, it.Item().Key()...))
		}
		it.Close()
		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for _, e := range entries {
			if err := txn.Set(peerKey(e.NetAddr), []byte(e.PubKeyHex)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	d.StaticDirectory.SetPeers(entries)
	return nil
}

// Close releases the underlying badger handle.
func (d *BadgerDirectory) Close() error {
	return d.db.Close()
}
