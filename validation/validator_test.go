package validation

import (
	"testing"

	"github.com/mosaic-bft/ledgerd/message"
	"github.com/mosaic-bft/ledgerd/wsv"
)

func accountsFixture() map[string]wsv.Account {
	return map[string]wsv.Account{
		"a": {
			ID:          "a",
			Quorum:      2,
			Signatories: map[string]struct{}{"pk_a": {}, "pk_b": {}},
		},
		"b": {
			ID:          "b",
			Quorum:      1,
			Signatories: map[string]struct{}{"pk_1": {}, "pk_2": {}},
		},
	}
}

func tx(creator string, keys ...string) message.Transaction {
	sigs := make([]message.Signature, 0, len(keys))
	for _, k := range keys {
		sigs = append(sigs, message.Signature{PublicKeyHex: k, Bytes: []byte("sig-" + k)})
	}
	return message.Transaction{CreatorAccountID: creator, Signatures: sigs}
}

// S4 — quorum rejection: T1 under-signed is excluded, T2 fully signed
// survives.
func TestQuorumRejection(t *testing.T) {
	v := wsv.NewView(accountsFixture())
	p := message.Proposal{
		Height: 2,
		Transactions: []message.Transaction{
			tx("a", "pk_a"),
			tx("a", "pk_a", "pk_b"),
		},
	}

	out := New(nil).Validate(p, v)

	if len(out.Transactions) != 1 {
		t.Fatalf("expected exactly 1 surviving transaction, got %d", len(out.Transactions))
	}
	if len(out.Transactions[0].Signatures) != 2 {
		t.Fatalf("expected the fully-signed transaction to survive, got %+v", out.Transactions[0])
	}
}

// S5 — unknown-signer rejection: a signer outside the signatory set
// disqualifies the transaction even though the signature count meets
// quorum.
func TestUnknownSignerRejection(t *testing.T) {
	v := wsv.NewView(accountsFixture())
	p := message.Proposal{
		Height: 2,
		Transactions: []message.Transaction{
			tx("b", "pk_1", "pk_3"),
		},
	}

	out := New(nil).Validate(p, v)

	if len(out.Transactions) != 0 {
		t.Fatalf("expected transaction with unregistered signer to be excluded, got %d", len(out.Transactions))
	}
}

func TestUnknownAccountRejection(t *testing.T) {
	v := wsv.NewView(accountsFixture())
	p := message.Proposal{
		Height:       2,
		Transactions: []message.Transaction{tx("ghost", "pk_1")},
	}

	out := New(nil).Validate(p, v)
	if len(out.Transactions) != 0 {
		t.Fatal("expected transaction against unknown account to be excluded")
	}
}

func TestOutputPreservesHeightAndOrder(t *testing.T) {
	v := wsv.NewView(accountsFixture())
	t1 := tx("b", "pk_1")
	t2 := tx("a", "pk_a") // under quorum, rejected
	t3 := tx("b", "pk_2")

	p := message.Proposal{
		Height:       7,
		CreatedAt:    12345,
		Transactions: []message.Transaction{t1, t2, t3},
	}

	out := New(nil).Validate(p, v)

	if out.Height != 7 || out.CreatedAt != 12345 {
		t.Fatalf("expected height/created_at preserved, got %+v", out)
	}
	if len(out.Transactions) != 2 {
		t.Fatalf("expected 2 surviving transactions, got %d", len(out.Transactions))
	}
	if out.Transactions[0].Signatures[0].PublicKeyHex != "pk_1" ||
		out.Transactions[1].Signatures[0].PublicKeyHex != "pk_2" {
		t.Fatalf("expected input order preserved, got %+v", out.Transactions)
	}
}

// A later transaction's admissibility may depend on an earlier
// accepted transaction's effects within the same pass.
func TestSequencingAccumulatesEffects(t *testing.T) {
	accounts := accountsFixture()
	v := wsv.NewView(accounts)

	raiseQuorumPredicate := func(v *wsv.View) (map[string]wsv.Account, bool) {
		a, ok := v.GetAccount("b")
		if !ok {
			return nil, false
		}
		a.Quorum = 2
		return map[string]wsv.Account{"b": a}, true
	}
	v.Apply(raiseQuorumPredicate)

	p := message.Proposal{
		Height:       3,
		Transactions: []message.Transaction{tx("b", "pk_1")},
	}

	out := New(nil).Validate(p, v)
	if len(out.Transactions) != 0 {
		t.Fatal("expected transaction to be rejected once quorum was raised to 2 by an earlier effect")
	}
}
