package thirdparty

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gobwas/ws"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes"
	"github.com/golang/protobuf/ptypes/duration"
	"github.com/gorilla/websocket"

	"nhooyr.io/wsframe"
	"nhooyr.io/wsframe/internal/errd"
	"nhooyr.io/wsframe/internal/test/assert"
)

// TestGorillaClient decodes the frames a real client writes after
// a handshake performed by gobwas/ws behind a gin router.
func TestGorillaClient(t *testing.T) {
	t.Parallel()

	frames := make(chan wsframe.Frame, 8)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/", func(ginCtx *gin.Context) {
		err := dumpServer(ginCtx.Writer, ginCtx.Request, frames)
		if err != nil {
			t.Error(err)
		}
	})

	s := httptest.NewServer(r)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	c, _, err := websocket.DefaultDialer.DialContext(ctx, "ws"+strings.TrimPrefix(s.URL, "http"), nil)
	assert.Success(t, err)
	defer c.Close()

	err = c.WriteMessage(websocket.TextMessage, []byte("hello"))
	assert.Success(t, err)

	pb, err := proto.Marshal(ptypes.DurationProto(time.Second * 3))
	assert.Success(t, err)
	err = c.WriteMessage(websocket.BinaryMessage, pb)
	assert.Success(t, err)

	deadline := time.Now().Add(time.Second * 10)
	err = c.WriteControl(websocket.PingMessage, []byte("ping"), deadline)
	assert.Success(t, err)
	err = c.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	assert.Success(t, err)

	f := readFrame(t, frames)
	assert.Equal(t, "opcode", wsframe.OpText, f.Opcode)
	assert.Equal(t, "fin", true, f.Fin)
	assert.Equal(t, "masked", true, f.Masked)
	assert.Equal(t, "payload", []byte("hello"), f.Unmasked())

	f = readFrame(t, frames)
	assert.Equal(t, "opcode", wsframe.OpBinary, f.Opcode)
	var d duration.Duration
	err = proto.Unmarshal(f.Unmasked(), &d)
	assert.Success(t, err)
	dur, err := ptypes.Duration(&d)
	assert.Success(t, err)
	assert.Equal(t, "duration", time.Second*3, dur)

	f = readFrame(t, frames)
	assert.Equal(t, "opcode", wsframe.OpPing, f.Opcode)
	assert.Equal(t, "payload", []byte("ping"), f.Unmasked())

	f = readFrame(t, frames)
	assert.Equal(t, "opcode", wsframe.OpClose, f.Opcode)
	assert.Equal(t, "payload", []byte{0x03, 0xe8}, f.Unmasked())
}

// dumpServer upgrades the request and then decodes frames from the raw
// connection until a close frame arrives.
func dumpServer(w http.ResponseWriter, r *http.Request, frames chan<- wsframe.Frame) (err error) {
	defer errd.Wrap(&err, "dump server failed")

	conn, rw, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		return err
	}
	defer conn.Close()

	fr := wsframe.NewReader(rw.Reader, wsframe.Decoder{MaxPayload: 1 << 20})
	for {
		f, err := fr.ReadFrame()
		if err != nil {
			return err
		}
		frames <- f
		if f.Opcode == wsframe.OpClose {
			return nil
		}
	}
}

func readFrame(t *testing.T, frames <-chan wsframe.Frame) wsframe.Frame {
	t.Helper()

	select {
	case f := <-frames:
		return f
	case <-time.After(time.Second * 10):
		t.Fatal("timed out waiting for frame")
		return wsframe.Frame{}
	}
}
