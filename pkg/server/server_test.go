package server

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/client"
	"github.com/vitalvas/radkit/pkg/dictionaries"
	"github.com/vitalvas/radkit/pkg/dictionary"
	"github.com/vitalvas/radkit/pkg/packet"
)

const testSecret = "sharedSecret1"

func newDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	dict, err := dictionaries.NewDefault()
	require.NoError(t, err)
	return dict
}

func loopbackSecrets(t *testing.T, secret string) *StaticSecrets {
	t.Helper()
	secrets := NewStaticSecrets()
	require.NoError(t, secrets.Add("loopback", "127.0.0.0/8", secret))
	return secrets
}

// startServer serves h on a loopback socket and returns its endpoint.
func startServer(t *testing.T, dict *dictionary.Dictionary, secrets SecretProvider, h Handler) (*Server, client.Endpoint) {
	t.Helper()

	srv, err := New(dict, secrets)
	require.NoError(t, err)
	require.NoError(t, srv.Listen("main", "127.0.0.1:0", h))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(context.Background()) }()

	t.Cleanup(func() {
		require.NoError(t, srv.Close())
		assert.NoError(t, <-errCh)
	})

	addr, ok := srv.Addr("main")
	require.True(t, ok)
	return srv, client.Endpoint{Addr: addr, Secret: testSecret}
}

func newClient(t *testing.T, dict *dictionary.Dictionary, attempts int, timeout time.Duration) *client.Client {
	t.Helper()
	c, err := client.New(dict,
		client.WithBindAddr("127.0.0.1:0"),
		client.WithTimeoutHandler(client.FixedTimeoutHandler{Attempts: attempts, Timeout: timeout}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func passwordHandler(password string) Handler {
	return HandlerFunc(func(_ context.Context, r *Request) (*packet.Packet, error) {
		ok, err := r.Packet.CheckPassword(password)
		if err != nil || !ok {
			return r.Reply(packet.CodeAccessReject)
		}
		msg, err := attribute.FromName(r.Packet.Dictionary(), "Reply-Message", "welcome")
		if err != nil {
			return nil, err
		}
		return r.Reply(packet.CodeAccessAccept, msg)
	})
}

func TestServerAccessRequest(t *testing.T) {
	dict := newDict(t)
	_, ep := startServer(t, dict, loopbackSecrets(t, testSecret), passwordHandler("myPw"))
	c := newClient(t, dict, 3, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.AccessRequest(ctx, map[string]string{"User-Name": "alice", "User-Password": "myPw"}, ep)
	require.NoError(t, err)
	assert.Equal(t, packet.CodeAccessAccept, resp.Code())
	msg, ok := resp.AttributeByName("Reply-Message")
	require.True(t, ok)
	assert.Equal(t, "welcome", msg.ValueString())

	resp, err = c.AccessRequest(ctx, map[string]string{"User-Name": "alice", "User-Password": "wrong"}, ep)
	require.NoError(t, err)
	assert.Equal(t, packet.CodeAccessReject, resp.Code())

	chap, err := packet.NewAccessRequestCHAP(dict, 7, "alice", "myPw")
	require.NoError(t, err)
	resp, err = c.Exchange(ctx, chap, ep)
	require.NoError(t, err)
	assert.Equal(t, packet.CodeAccessAccept, resp.Code())
}

func TestServerDropsUnknownClient(t *testing.T) {
	dict := newDict(t)

	var calls atomic.Int32
	h := HandlerFunc(func(_ context.Context, r *Request) (*packet.Packet, error) {
		calls.Add(1)
		return r.DefaultReply()
	})

	secrets := NewStaticSecrets()
	require.NoError(t, secrets.Add("elsewhere", "192.0.2.0/24", testSecret))
	_, ep := startServer(t, dict, secrets, h)
	c := newClient(t, dict, 1, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.AccountingRequest(ctx, map[string]string{"Acct-Status-Type": "Start"}, ep)
	assert.ErrorIs(t, err, client.ErrTimeout)
	assert.Equal(t, int32(0), calls.Load())
}

func TestServerDropsWrongSecret(t *testing.T) {
	dict := newDict(t)

	var calls atomic.Int32
	h := HandlerFunc(func(_ context.Context, r *Request) (*packet.Packet, error) {
		calls.Add(1)
		return r.DefaultReply()
	})
	_, ep := startServer(t, dict, loopbackSecrets(t, "serverSecret"), h)
	c := newClient(t, dict, 1, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.AccountingRequest(ctx, map[string]string{"Acct-Status-Type": "Start"}, ep)
	assert.ErrorIs(t, err, client.ErrTimeout)
	assert.Equal(t, int32(0), calls.Load())
}

func TestServerEchoesProxyState(t *testing.T) {
	dict := newDict(t)
	h := HandlerFunc(func(_ context.Context, r *Request) (*packet.Packet, error) {
		return r.DefaultReply()
	})
	_, ep := startServer(t, dict, loopbackSecrets(t, testSecret), h)

	state, err := attribute.Create(dict, dictionary.NoVendor, packet.TypeProxyState, 0, []byte("hop-1"))
	require.NoError(t, err)
	req, err := packet.New(dict, packet.CodeAccountingRequest, 11, nil, []*attribute.Attribute{state})
	require.NoError(t, err)
	encoded, err := req.EncodeRequest(testSecret)
	require.NoError(t, err)

	conn, err := net.Dial("udp", ep.Addr.String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write(encoded.Bytes())
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, packet.MaxPacketLength)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	resp, err := packet.Parse(dict, buf[:n])
	require.NoError(t, err)
	resp, err = resp.DecodeResponse(testSecret, encoded.Authenticator())
	require.NoError(t, err)

	assert.Equal(t, packet.CodeAccountingResponse, resp.Code())
	got, ok := resp.Attribute(dictionary.NoVendor, packet.TypeProxyState)
	require.True(t, ok)
	assert.Equal(t, []byte("hop-1"), got.Value())
}

func TestServerMultipleListeners(t *testing.T) {
	dict := newDict(t)

	srv, err := New(dict, loopbackSecrets(t, testSecret))
	require.NoError(t, err)

	auth := passwordHandler("pw")
	acct := HandlerFunc(func(_ context.Context, r *Request) (*packet.Packet, error) {
		return r.DefaultReply()
	})
	require.NoError(t, srv.Listen("auth", "127.0.0.1:0", auth))
	require.NoError(t, srv.Listen("acct", "127.0.0.1:0", acct))
	assert.Error(t, srv.Listen("acct", "127.0.0.1:0", acct))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(context.Background()) }()

	authAddr, _ := srv.Addr("auth")
	acctAddr, _ := srv.Addr("acct")
	c := newClient(t, dict, 3, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.AccessRequest(ctx, map[string]string{"User-Name": "bob", "User-Password": "pw"},
		client.Endpoint{Addr: authAddr, Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, packet.CodeAccessAccept, resp.Code())

	resp, err = c.AccountingRequest(ctx, map[string]string{"Acct-Status-Type": "Start"},
		client.Endpoint{Addr: acctAddr, Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, packet.CodeAccountingResponse, resp.Code())

	assert.Equal(t, StateRunning, srv.State())
	require.NoError(t, srv.Close())
	assert.NoError(t, <-errCh)
	assert.Equal(t, StateStopped, srv.State())

	assert.ErrorIs(t, srv.Serve(context.Background()), ErrServerClosed)
}

func TestServerStopsOnContext(t *testing.T) {
	dict := newDict(t)

	srv, err := New(dict, loopbackSecrets(t, testSecret))
	require.NoError(t, err)
	assert.ErrorIs(t, srv.Serve(context.Background()), ErrNoListeners)

	require.NoError(t, srv.Listen("main", "127.0.0.1:0", passwordHandler("pw")))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestDefaultResponseCode(t *testing.T) {
	tests := []struct {
		code packet.Code
		want packet.Code
	}{
		{packet.CodeAccessRequest, packet.CodeAccessReject},
		{packet.CodeAccountingRequest, packet.CodeAccountingResponse},
		{packet.CodeCoARequest, packet.CodeCoANAK},
		{packet.CodeDisconnectRequest, packet.CodeDisconnectNAK},
		{packet.CodeStatusServer, packet.CodeAccessAccept},
		{packet.CodePasswordRequest, packet.CodePasswordReject},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultResponseCode(tt.code))
		})
	}
}
