package proxy

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connect performs a SOCKS5 CONNECT to target through the proxy at addr.
func connect(t *testing.T, addr string, target *net.TCPAddr) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	// Greeting: version 5, one method, no authentication.
	_, err = conn.Write([]byte{5, 1, 0})
	require.NoError(t, err)
	reply := make([]byte, 2)
	_, err = io.ReadFull(conn, reply)
	require.NoError(t, err)
	require.Equal(t, []byte{5, 0}, reply)

	req := []byte{5, 1, 0, 1}
	req = append(req, target.IP.To4()...)
	port := make([]byte, 2)
	binary.BigEndian.PutUint16(port, uint16(target.Port))
	req = append(req, port...)
	_, err = conn.Write(req)
	require.NoError(t, err)

	// Reply: version, status, reserved, IPv4 bound address and port.
	reply = make([]byte, 10)
	_, err = io.ReadFull(conn, reply)
	require.NoError(t, err)
	require.Equal(t, byte(0), reply[1], "CONNECT status")
	return conn
}

func TestProxyConnect(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "through the proxy")
	}))
	defer backend.Close()
	target, err := net.ResolveTCPAddr("tcp", backend.Listener.Addr().String())
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s, err := Start("127.0.0.1:0", logger)
	require.NoError(t, err)
	defer s.Close()

	conn := connect(t, s.Addr(), target)
	defer conn.Close()

	fmt.Fprintf(conn, "GET / HTTP/1.0\r\nHost: %s\r\n\r\n", target)
	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "through the proxy", string(body))

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, s.Addr(), hook.AllEntries()[0].Data["addr"])
}

func TestProxyClose(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s, err := Start("127.0.0.1:0", logger)
	require.NoError(t, err)
	addr := s.Addr()
	require.NoError(t, s.Close())

	_, err = net.Dial("tcp", addr)
	assert.Error(t, err, "proxy still accepting after Close")
}

func TestStartBadAddress(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	_, err := Start("256.0.0.1:0", logger)
	assert.Error(t, err)
}
