// Package validation implements the Stateful Validator (C7): it takes
// a proposal and a temporary view and returns the order-preserving
// subsequence of transactions that pass the admissibility predicate,
// committing each accepted transaction's effects into the view as it
// goes.
package validation

import (
	"github.com/sirupsen/logrus"

	"github.com/mosaic-bft/ledgerd/common"
	"github.com/mosaic-bft/ledgerd/message"
	"github.com/mosaic-bft/ledgerd/wsv"
)

// Validator runs the admissibility predicate over a proposal's
// transactions against a temporary view.
type Validator struct {
	logger *logrus.Entry
}

// New builds a Validator. logger may be nil.
func New(logger *logrus.Entry) *Validator {
	return &Validator{logger: logger}
}

// Validate evaluates P.Transactions in order against v, returning a
// proposal carrying the same height and creation time but only the
// accepted subsequence. Accepted transactions' effects accumulate in
// v as the pass proceeds, so a later transaction may become valid
// only because of an earlier one's accepted effects.
func (val *Validator) Validate(p message.Proposal, v *wsv.View) message.Proposal {
	if val.logger != nil {
		val.logger.Infof("validating %d transactions in proposal at height %d", len(p.Transactions), p.Height)
	}

	valid := make([]message.Transaction, 0, len(p.Transactions))
	for _, tx := range p.Transactions {
		rejectReason := ""
		accepted := v.Apply(checkingTransaction(tx, &rejectReason))
		if accepted {
			valid = append(valid, tx)
			continue
		}
		if val.logger != nil {
			val.logger.WithField("reason", rejectReason).WithField("account", tx.CreatorAccountID).Debug("rejecting transaction")
		}
	}

	if val.logger != nil {
		val.logger.Infof("%d transactions in validated proposal", len(valid))
	}

	return message.Proposal{
		Height:       p.Height,
		CreatedAt:    p.CreatedAt,
		Transactions: valid,
	}
}

// checkingTransaction builds the per-transaction admissibility
// predicate described in the design: account must exist, the
// transaction's signature count must meet the account's quorum, the
// account's signatories must exist, and every signing key must belong
// to that signatory set. reason, if non-nil, is set to the kind-tagged
// reason for a rejection, for the caller to log.
func checkingTransaction(tx message.Transaction, reason *string) wsv.Predicate {
	reject := func(err common.Err) (map[string]wsv.Account, bool) {
		if reason != nil {
			*reason = err.Error()
		}
		return nil, false
	}

	return func(v *wsv.View) (map[string]wsv.Account, bool) {
		account, ok := v.GetAccount(tx.CreatorAccountID)
		if !ok {
			return reject(common.New(common.UnknownAccount, tx.CreatorAccountID))
		}

		if len(tx.Signatures) < account.Quorum {
			return reject(common.New(common.QuorumNotMet, tx.CreatorAccountID))
		}

		signatories, ok := v.GetSignatories(tx.CreatorAccountID)
		if !ok {
			return reject(common.New(common.UnknownAccount, tx.CreatorAccountID))
		}

		if !signaturesSubset(tx.Signatures, signatories) {
			return reject(common.New(common.InvalidSignature, tx.CreatorAccountID))
		}

		return nil, true
	}
}

// signaturesSubset reports whether every signing public key on sigs
// belongs to signatories — the direction named explicitly by the
// design: every signer of the transaction must be a registered
// signatory, not the other way around.
func signaturesSubset(sigs []message.Signature, signatories map[string]struct{}) bool {
	for _, sig := range sigs {
		if _, ok := signatories[sig.PublicKeyHex]; !ok {
			return false
		}
	}
	return true
}
