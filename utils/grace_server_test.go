package utils

import (
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_StopDrainsInFlightRequest(t *testing.T) {
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		_, _ = io.WriteString(w, "done")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewServer(ln.Addr().String(), handler, time.Second, time.Second, 5*time.Second)

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	body := make(chan string, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			body <- err.Error()
			return
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body <- string(b)
	}()

	<-started
	srv.Stop()

	assert.Equal(t, "done", <-body)
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_StopIsIdempotent(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewServer("", http.NotFoundHandler(), time.Second, time.Second, 0)
	assert.Equal(t, DefaultShutdownTimeout, srv.shutdownTimeout)

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()
	time.Sleep(20 * time.Millisecond)

	srv.Stop()
	srv.Stop()
	assert.NoError(t, <-served)
}
