package peers

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
)

const jsonPeersPath = "peers.json"

// ReadJSONPeers loads the peer set an operator provisioned by hand as a
// JSON array of PeerEntry values under base/peers.json, mirroring the
// teacher's JSONPeers store. It returns (nil, nil) if the file is
// absent or empty, so callers can distinguish "no file yet" from a
// genuine read error.
func ReadJSONPeers(base string) ([]PeerEntry, error) {
	path := filepath.Join(base, jsonPeersPath)

	buf, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if len(buf) == 0 {
		return nil, nil
	}

	var entries []PeerEntry
	dec := json.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// WriteJSONPeers persists entries to base/peers.json, so an operator can
// hand-edit the file between runs.
func WriteJSONPeers(base string, entries []PeerEntry) error {
	path := filepath.Join(base, jsonPeersPath)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(entries); err != nil {
		return err
	}

	return ioutil.WriteFile(path, buf.Bytes(), 0644)
}
