package net

import "github.com/mosaic-bft/ledgerd/message"

// StatusResponse is the uniform response shape for Sumeragi.Verify and
// Sumeragi.Torii: a well-formed successful response carries Value "OK"
// and a Confirm that verifies under the responder's own key.
type StatusResponse struct {
	Value   string                     `json:"value"`
	Confirm message.RecieverConfirmation `json:"confirm"`
}
