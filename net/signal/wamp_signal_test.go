package signal

import (
	"testing"
	"time"

	webrtc "github.com/pion/webrtc/v2"
	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T, addr, realm string) *Server {
	srv, err := NewServer(addr, realm, "", "", logrus.NewEntry(logrus.New()))
	if err != nil {
		t.Fatalf("starting signal server: %v", err)
	}
	go srv.Run()
	time.Sleep(50 * time.Millisecond)
	t.Cleanup(srv.Shutdown)
	return srv
}

func TestWampSignalOfferReachesCalleeHandler(t *testing.T) {
	addr := "127.0.0.1:18822"
	realm := "test-realm"
	newTestServer(t, addr, realm)

	callee, err := NewWampSignal(addr, realm, "callee", time.Second, logrus.NewEntry(logrus.New()))
	if err != nil {
		t.Fatalf("connecting callee: %v", err)
	}
	defer callee.Close()

	if err := callee.Listen(); err != nil {
		t.Fatalf("callee listen: %v", err)
	}

	go func() {
		for p := range callee.Consumer() {
			p.Respond(&webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer}, nil)
		}
	}()

	caller, err := NewWampSignal(addr, realm, "caller", time.Second, logrus.NewEntry(logrus.New()))
	if err != nil {
		t.Fatalf("connecting caller: %v", err)
	}
	defer caller.Close()

	answer, err := caller.Offer("callee", webrtc.SessionDescription{Type: webrtc.SDPTypeOffer})
	if err != nil {
		t.Fatalf("unexpected offer error: %v", err)
	}
	if answer == nil {
		t.Fatal("expected a non-nil answer from the callee")
	}
}

func TestWampSignalOfferToUnknownTargetFails(t *testing.T) {
	addr := "127.0.0.1:18823"
	realm := "test-realm"
	newTestServer(t, addr, realm)

	caller, err := NewWampSignal(addr, realm, "caller", 200*time.Millisecond, logrus.NewEntry(logrus.New()))
	if err != nil {
		t.Fatalf("connecting caller: %v", err)
	}
	defer caller.Close()

	_, err = caller.Offer("nobody-registered", webrtc.SessionDescription{})
	if err == nil {
		t.Fatal("expected an error calling an unregistered procedure")
	}
}
