package peers

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/btcsuite/btcd/btcec"
)

func genKey(t *testing.T) *btcec.PrivateKey {
	key, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		t.Fatal(err)
	}
	return key
}

func TestStaticDirectoryExcludesSelf(t *testing.T) {
	self := PeerEntry{NetAddr: "127.0.0.1:1337", PubKeyHex: "aa"}
	others := []PeerEntry{
		{NetAddr: "127.0.0.1:1338", PubKeyHex: "bb"},
		{NetAddr: "127.0.0.1:1339", PubKeyHex: "cc"},
	}

	d := NewStaticDirectory(self, genKey(t), 1337, append(append([]PeerEntry{}, others...), self))

	ips := d.IPList()
	if len(ips) != 2 {
		t.Fatalf("expected 2 peers excluding self, got %d: %v", len(ips), ips)
	}
	for _, ip := range ips {
		if ip == self.NetAddr {
			t.Fatalf("IPList leaked self address %s", self.NetAddr)
		}
	}
}

func TestStaticDirectorySetPeersSnapshot(t *testing.T) {
	self := PeerEntry{NetAddr: "127.0.0.1:1337", PubKeyHex: "aa"}
	d := NewStaticDirectory(self, genKey(t), 0, nil)

	d.SetPeers([]PeerEntry{{NetAddr: "127.0.0.1:1340", PubKeyHex: "dd"}})
	if len(d.IPList()) != 1 {
		t.Fatalf("expected 1 peer after SetPeers, got %d", len(d.IPList()))
	}

	d.SetPeers([]PeerEntry{})
	if len(d.IPList()) != 0 {
		t.Fatalf("expected 0 peers after clearing, got %d", len(d.IPList()))
	}
}

func TestGetGRPCPortDefault(t *testing.T) {
	d := NewStaticDirectory(PeerEntry{NetAddr: "a"}, genKey(t), 0, nil)
	if got := d.GetGRPCPort(1338); got != 1338 {
		t.Fatalf("expected default port 1338, got %d", got)
	}

	d2 := NewStaticDirectory(PeerEntry{NetAddr: "a"}, genKey(t), 9001, nil)
	if got := d2.GetGRPCPort(1338); got != 9001 {
		t.Fatalf("expected configured port 9001, got %d", got)
	}
}

func TestBadgerDirectoryPersistsAcrossReopen(t *testing.T) {
	dir, err := ioutil.TempDir("", "badger-directory-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	self := PeerEntry{NetAddr: "127.0.0.1:1337", PubKeyHex: "aa"}
	key := genKey(t)

	bd, err := NewBadgerDirectory(self, key, 1337, dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := bd.AddPeer(PeerEntry{NetAddr: "127.0.0.1:1338", PubKeyHex: "bb"}); err != nil {
		t.Fatal(err)
	}
	if err := bd.AddPeer(PeerEntry{NetAddr: "127.0.0.1:1339", PubKeyHex: "cc"}); err != nil {
		t.Fatal(err)
	}
	if err := bd.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBadgerDirectory(self, key, 1337, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	ips := reopened.IPList()
	if len(ips) != 2 {
		t.Fatalf("expected 2 persisted peers after reopen, got %d: %v", len(ips), ips)
	}
}

func TestBadgerDirectoryRemovePeer(t *testing.T) {
	dir, err := ioutil.TempDir("", "badger-directory-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	self := PeerEntry{NetAddr: "127.0.0.1:1337", PubKeyHex: "aa"}
	bd, err := NewBadgerDirectory(self, genKey(t), 1337, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer bd.Close()

	if err := bd.AddPeer(PeerEntry{NetAddr: "127.0.0.1:1338", PubKeyHex: "bb"}); err != nil {
		t.Fatal(err)
	}
	if err := bd.RemovePeer("127.0.0.1:1338"); err != nil {
		t.Fatal(err)
	}
	if len(bd.IPList()) != 0 {
		t.Fatalf("expected peer removed, got %v", bd.IPList())
	}
}
