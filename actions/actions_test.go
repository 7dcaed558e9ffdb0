package actions

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodeJSON(t *testing.T, data []byte) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("json.Unmarshal(%s) returned error: %v", data, err)
	}
	return v
}

func TestNewPointerInput(t *testing.T) {
	tests := []struct {
		desc    string
		kind    PointerType
		wantErr bool
	}{
		{desc: "mouse", kind: Mouse},
		{desc: "touch", kind: Touch},
		{desc: "pen", kind: Pen},
		{desc: "unknown kind", kind: "trackball", wantErr: true},
	}
	for _, test := range tests {
		p, err := NewPointerInput(test.kind, "")
		if gotErr := err != nil; gotErr != test.wantErr {
			t.Errorf("%s: NewPointerInput(%q) error = %v, want error: %t", test.desc, test.kind, err, test.wantErr)
			continue
		}
		if err == nil && p.ID() == "" {
			t.Errorf("%s: NewPointerInput(%q) has an empty id", test.desc, test.kind)
		}
	}
}

func TestDragAndDropByEncoding(t *testing.T) {
	c := NewChain().DragAndDropBy("abc", 80, 0)

	got, err := json.Marshal(c.Builder().Encode())
	if err != nil {
		t.Fatalf("json.Marshal() returned error: %v", err)
	}
	want := `{"actions": [
		{"type": "pointer", "id": "mouse", "parameters": {"pointerType": "mouse"}, "actions": [
			{"type": "pointerMove", "duration": 250, "x": 0, "y": 0, "origin": {"element-6066-11e4-a52e-4f735466cecf": "abc"}},
			{"type": "pointerDown", "button": 0},
			{"type": "pointerMove", "duration": 250, "x": 80, "y": 0, "origin": "pointer"},
			{"type": "pointerUp", "button": 0}
		]},
		{"type": "key", "id": "keyboard", "actions": [
			{"type": "pause", "duration": 0},
			{"type": "pause", "duration": 0},
			{"type": "pause", "duration": 0},
			{"type": "pause", "duration": 0}
		]}
	]}`
	if diff := cmp.Diff(decodeJSON(t, []byte(want)), decodeJSON(t, got)); diff != "" {
		t.Errorf("Encode() returned diff (-want/+got):\n%s", diff)
	}
}

func TestSendKeysKeepsSourcesAligned(t *testing.T) {
	c := NewChain().SendKeys("ab")
	b := c.Builder()
	if got, want := b.Keyboard.Len(), 4; got != want {
		t.Errorf("keyboard actions = %d, want %d", got, want)
	}
	if got, want := b.Mouse.Len(), b.Keyboard.Len(); got != want {
		t.Errorf("mouse actions = %d, want %d", got, want)
	}
}

func TestEncodeSkipsIdleSources(t *testing.T) {
	b := NewBuilder()
	b.Keyboard.Down("a")
	seq := b.Encode()["actions"].([]interface{})
	if len(seq) != 1 {
		t.Fatalf("Encode() has %d sources, want 1", len(seq))
	}
	if got := seq[0].(map[string]interface{})["type"]; got != KeySource {
		t.Errorf("source type = %v, want %q", got, KeySource)
	}
	b.Clear()
	if !b.Empty() {
		t.Errorf("Empty() = false after Clear")
	}
}

func TestMultiSourceEncoding(t *testing.T) {
	b := NewBuilder()
	finger, err := b.AddPointer(Touch, "finger")
	if err != nil {
		t.Fatalf("AddPointer(touch) returned error: %v", err)
	}
	if _, err := b.AddPointer("trackball", ""); err == nil {
		t.Error("AddPointer(trackball) returned nil error")
	}
	shift := b.AddKey("shift")

	finger.Move(Viewport, 10, 20, 0)
	finger.Down(LeftButton)
	finger.Cancel()
	shift.Down("\ue008")
	shift.Up("\ue008")

	got, err := json.Marshal(b.Encode())
	if err != nil {
		t.Fatalf("json.Marshal() returned error: %v", err)
	}
	want := `{"actions": [
		{"type": "pointer", "id": "finger", "parameters": {"pointerType": "touch"}, "actions": [
			{"type": "pointerMove", "duration": 0, "x": 10, "y": 20, "origin": "viewport"},
			{"type": "pointerDown", "button": 0},
			{"type": "pointerCancel"}
		]},
		{"type": "key", "id": "shift", "actions": [
			{"type": "keyDown", "value": "\ue008"},
			{"type": "keyUp", "value": "\ue008"}
		]}
	]}`
	if diff := cmp.Diff(decodeJSON(t, []byte(want)), decodeJSON(t, got)); diff != "" {
		t.Errorf("Encode() returned diff (-want/+got):\n%s", diff)
	}

	b.Clear()
	if !b.Empty() {
		t.Errorf("Empty() = false after Clear with added sources")
	}
}

func TestPerform(t *testing.T) {
	var methods []string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.Path, "/wd/hub/session/sid/actions"; got != want {
			t.Errorf("request path = %q, want %q", got, want)
		}
		methods = append(methods, r.Method)
		if r.Method == http.MethodPost {
			body, _ = ioutil.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value": null}`))
	}))
	defer srv.Close()

	c := NewChain().MoveTo(10, 20).Click()
	if err := c.Perform(context.Background(), NewPerformer(srv.URL+"/wd/hub/"), "sid"); err != nil {
		t.Fatalf("Perform() returned error: %v", err)
	}
	if diff := cmp.Diff([]string{http.MethodPost, http.MethodDelete}, methods); diff != "" {
		t.Errorf("request methods diff (-want/+got):\n%s", diff)
	}
	if !strings.Contains(string(body), `"pointerDown"`) {
		t.Errorf("request body %s does not press a button", body)
	}
	if !c.Builder().Empty() {
		t.Errorf("chain not cleared after Perform")
	}
}

func TestPerformEmptyChainSendsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	if err := NewChain().Perform(context.Background(), NewPerformer(srv.URL), "sid"); err != nil {
		t.Fatalf("Perform() returned error: %v", err)
	}
}

func TestPerformRemoteError(t *testing.T) {
	tests := []struct {
		desc  string
		reply string
		want  string
	}{
		{
			desc:  "w3c error with message",
			reply: `{"value": {"error": "no such element", "message": "element not found"}}`,
			want:  "no such element: element not found",
		},
		{
			desc:  "w3c error without message",
			reply: `{"value": {"error": "move target out of bounds"}}`,
			want:  "move target out of bounds",
		},
		{
			desc:  "unparsable reply",
			reply: `oops`,
			want:  "bad server reply status: 500 Internal Server Error",
		},
	}
	for _, test := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(test.reply))
		}))
		b := NewBuilder()
		b.Mouse.Down(LeftButton)
		err := NewPerformer(srv.URL).Perform(context.Background(), "sid", b)
		srv.Close()
		if err == nil {
			t.Errorf("%s: Perform() returned nil error", test.desc)
			continue
		}
		if got := err.Error(); got != test.want {
			t.Errorf("%s: Perform() error = %q, want %q", test.desc, got, test.want)
		}
	}
}

func TestPerformWithoutExecutor(t *testing.T) {
	if err := (&Performer{}).Release(context.Background(), "sid"); err == nil {
		t.Error("Release() with no executor returned nil error")
	}
}
