package ftp

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/telebroad/ftpd/credentials"
	"github.com/telebroad/ftpd/filesystem"
)

// testServer starts a real Server on an ephemeral port and returns it
// along with a function to dial a fresh control connection.
func testServer(t *testing.T) (*Server, func() *textConn) {
	t.Helper()
	dir := t.TempDir()
	fsys, err := filesystem.NewLocalFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	creds := credentials.New(map[string]string{"alice": "wonderland"})

	srv := NewServer("127.0.0.1:0", fsys, creds, 2, 2)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	dial := func() *textConn {
		conn, err := net.DialTimeout("tcp", ln.Addr().String(), 2*time.Second)
		if err != nil {
			t.Fatal(err)
		}
		return &textConn{Conn: conn, r: bufio.NewReader(conn)}
	}
	return srv, dial
}

type textConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *textConn) send(line string) {
	c.Conn.Write([]byte(line + "\r\n"))
}

func (c *textConn) readLine(t *testing.T) string {
	t.Helper()
	c.Conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		t.Fatalf("reading reply: %v", err)
	}
	return strings.TrimRight(line, "\r\n")
}

func TestWelcomeBanner(t *testing.T) {
	_, dial := testServer(t)
	conn := dial()
	defer conn.Close()

	greeting := conn.readLine(t)
	if !strings.HasPrefix(greeting, "220") {
		t.Fatalf("expected 220 greeting, got %q", greeting)
	}
}

func TestLoginFlow(t *testing.T) {
	_, dial := testServer(t)
	conn := dial()
	defer conn.Close()
	conn.readLine(t) // banner

	conn.send("USER alice")
	if r := conn.readLine(t); !strings.HasPrefix(r, "331") {
		t.Fatalf("expected 331, got %q", r)
	}

	conn.send("PASS wrong")
	if r := conn.readLine(t); !strings.HasPrefix(r, "530") {
		t.Fatalf("expected 530 for wrong password, got %q", r)
	}

	conn.send("PWD")
	if r := conn.readLine(t); !strings.HasPrefix(r, "530") {
		t.Fatalf("expected 530 before login, got %q", r)
	}

	conn.send("USER alice")
	conn.readLine(t)
	conn.send("PASS wonderland")
	if r := conn.readLine(t); !strings.HasPrefix(r, "230") {
		t.Fatalf("expected 230, got %q", r)
	}

	conn.send("PWD")
	if r := conn.readLine(t); !strings.HasPrefix(r, "257") {
		t.Fatalf("expected 257, got %q", r)
	}
}

func login(t *testing.T, conn *textConn) {
	t.Helper()
	conn.readLine(t) // banner
	conn.send("USER alice")
	conn.readLine(t)
	conn.send("PASS wonderland")
	if r := conn.readLine(t); !strings.HasPrefix(r, "230") {
		t.Fatalf("login failed: %q", r)
	}
}

func TestStorAndRetrRoundtrip(t *testing.T) {
	srv, dial := testServer(t)
	_ = srv
	conn := dial()
	defer conn.Close()
	login(t, conn)

	conn.send("TYPE I")
	if r := conn.readLine(t); !strings.HasPrefix(r, "200") {
		t.Fatalf("expected 200, got %q", r)
	}

	conn.send("PASV")
	reply := conn.readLine(t)
	if !strings.HasPrefix(reply, "227") {
		t.Fatalf("expected 227, got %q", reply)
	}
	host, port := parsePasvReply(t, reply)

	dataConn, err := net.Dial("tcp", net.JoinHostPort(host, port))
	if err != nil {
		t.Fatal(err)
	}

	conn.send("STOR hello.txt")
	if r := conn.readLine(t); !strings.HasPrefix(r, "150") {
		t.Fatalf("expected 150, got %q", r)
	}

	payload := "hello from the test\n"
	dataConn.Write([]byte(payload))
	dataConn.Close()

	if r := conn.readLine(t); !strings.HasPrefix(r, "226") {
		t.Fatalf("expected 226, got %q", r)
	}

	conn.send("PASV")
	reply = conn.readLine(t)
	host, port = parsePasvReply(t, reply)
	dataConn2, err := net.Dial("tcp", net.JoinHostPort(host, port))
	if err != nil {
		t.Fatal(err)
	}

	conn.send("RETR hello.txt")
	if r := conn.readLine(t); !strings.HasPrefix(r, "150") {
		t.Fatalf("expected 150, got %q", r)
	}

	buf := make([]byte, len(payload))
	dataConn2.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, err := readFull(dataConn2, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != payload {
		t.Fatalf("got %q want %q", buf, payload)
	}

	if r := conn.readLine(t); !strings.HasPrefix(r, "226") {
		t.Fatalf("expected 226, got %q", r)
	}
}

func TestMkdCwdPwd(t *testing.T) {
	_, dial := testServer(t)
	conn := dial()
	defer conn.Close()
	login(t, conn)

	conn.send("MKD sub")
	if r := conn.readLine(t); !strings.HasPrefix(r, "257") {
		t.Fatalf("expected 257, got %q", r)
	}

	conn.send("CWD sub")
	if r := conn.readLine(t); !strings.HasPrefix(r, "250") {
		t.Fatalf("expected 250, got %q", r)
	}

	conn.send("PWD")
	r := conn.readLine(t)
	if !strings.Contains(r, "/sub") {
		t.Fatalf("expected pwd to report /sub, got %q", r)
	}
}

func TestTypeRequiresLogin(t *testing.T) {
	_, dial := testServer(t)
	conn := dial()
	defer conn.Close()
	conn.readLine(t) // banner

	conn.send("TYPE I")
	if r := conn.readLine(t); !strings.HasPrefix(r, "530") {
		t.Fatalf("expected 530 before login, got %q", r)
	}
}

func TestRetrAsciiModeAppendsCRLF(t *testing.T) {
	srv, dial := testServer(t)
	conn := dial()
	defer conn.Close()
	login(t, conn)

	conn.send("PASV")
	host, port := parsePasvReply(t, conn.readLine(t))
	dataConn, err := net.Dial("tcp", net.JoinHostPort(host, port))
	if err != nil {
		t.Fatal(err)
	}
	conn.send("STOR ascii.txt")
	if r := conn.readLine(t); !strings.HasPrefix(r, "150") {
		t.Fatalf("expected 150, got %q", r)
	}
	dataConn.Write([]byte("This is a test file.\n"))
	dataConn.Close()
	if r := conn.readLine(t); !strings.HasPrefix(r, "226") {
		t.Fatalf("expected 226, got %q", r)
	}

	conn.send("TYPE A")
	if r := conn.readLine(t); !strings.HasPrefix(r, "200") {
		t.Fatalf("expected 200, got %q", r)
	}

	conn.send("PASV")
	host, port = parsePasvReply(t, conn.readLine(t))
	dataConn2, err := net.Dial("tcp", net.JoinHostPort(host, port))
	if err != nil {
		t.Fatal(err)
	}
	conn.send("RETR ascii.txt")
	if r := conn.readLine(t); !strings.HasPrefix(r, "150") {
		t.Fatalf("expected 150, got %q", r)
	}

	want := "This is a test file.\r\n"
	buf := make([]byte, len(want))
	dataConn2.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, err := readFull(dataConn2, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != want {
		t.Fatalf("got %q want %q", buf, want)
	}

	if r := conn.readLine(t); !strings.HasPrefix(r, "226") {
		t.Fatalf("expected 226, got %q", r)
	}
	_ = srv
}

func TestQuitClosesConnection(t *testing.T) {
	_, dial := testServer(t)
	conn := dial()
	defer conn.Close()
	conn.readLine(t)

	conn.send("QUIT")
	if r := conn.readLine(t); !strings.HasPrefix(r, "221") {
		t.Fatalf("expected 221, got %q", r)
	}
}

func parsePasvReply(t *testing.T, reply string) (host, port string) {
	t.Helper()
	start := strings.IndexByte(reply, '(')
	end := strings.IndexByte(reply, ')')
	if start < 0 || end < 0 {
		t.Fatalf("malformed PASV reply: %q", reply)
	}
	parts := strings.Split(reply[start+1:end], ",")
	if len(parts) != 6 {
		t.Fatalf("malformed PASV reply fields: %q", reply)
	}
	host = strings.Join(parts[0:4], ".")
	p1, err := strconv.Atoi(parts[4])
	if err != nil {
		t.Fatalf("non-numeric PASV field: %q", parts[4])
	}
	p2, err := strconv.Atoi(parts[5])
	if err != nil {
		t.Fatalf("non-numeric PASV field: %q", parts[5])
	}
	port = strconv.Itoa(p1*256 + p2)
	return
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
