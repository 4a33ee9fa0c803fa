// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/report"
)

func testConfig() fractal.Config {
	return fractal.NewConfig(
		fractal.WithGrid(48, 32),
		fractal.WithMaxIterations(50),
		fractal.WithBandHeight(4),
	)
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	ts := httptest.NewServer(New(testConfig(), dir).Handler())
	t.Cleanup(ts.Close)
	return ts, dir
}

func TestStrategies(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/strategies")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []strategyInfo
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d strategies, want 3", len(got))
	}
	if got[0].Name != "sequential" || got[1].Artifact != "Parallel_Fractal.png" || got[2].Label != "GPU Fractal" {
		t.Errorf("strategies = %+v", got)
	}
}

func TestRender_ServesArtifact(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/render/serial", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var res report.ResultJSON
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Strategy != "sequential" || !strings.HasSuffix(res.Artifact, "Serial_Fractal.png") {
		t.Errorf("result = %+v", res)
	}

	img, err := http.Get(ts.URL + "/artifacts/Serial_Fractal.png")
	if err != nil {
		t.Fatal(err)
	}
	defer img.Body.Close()
	if img.StatusCode != http.StatusOK {
		t.Fatalf("artifact status = %d", img.StatusCode)
	}
	decoded, err := png.Decode(img.Body)
	if err != nil {
		t.Fatalf("artifact is not a PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 48 || b.Dy() != 32 {
		t.Errorf("artifact bounds = %v", b)
	}
}

func TestRender_ConcurrentRequests(t *testing.T) {
	ts, _ := newTestServer(t)

	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(ts.URL+"/api/render/parallel", "", nil)
			if err != nil {
				return
			}
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}()
	}
	wg.Wait()
	for i, c := range codes {
		if c != http.StatusOK {
			t.Errorf("request %d status = %d", i, c)
		}
	}
}

func TestRender_Errors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		path string
		want int
	}{
		{"/api/render/quantum", http.StatusNotFound},
		// No backend is registered in this package's tests.
		{"/api/render/gpu", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		resp, err := http.Post(ts.URL+tt.path, "", nil)
		if err != nil {
			t.Fatal(err)
		}
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("POST %s status = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
		if body.Error == "" {
			t.Errorf("POST %s returned no error message", tt.path)
		}
	}
}

func TestProgress_StreamsEveryBand(t *testing.T) {
	ts, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/api/progress", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.CloseNow()

	seen := make(map[int]bool)
	rows := 0
	for {
		var msg ProgressMessage
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == "done" {
			break
		}
		if msg.Type != "band" {
			t.Fatalf("unexpected message %+v", msg)
		}
		if msg.Total != 8 {
			t.Errorf("total = %d, want 8", msg.Total)
		}
		if seen[msg.Band] {
			t.Errorf("band %d reported twice", msg.Band)
		}
		seen[msg.Band] = true
		rows += msg.Rows
	}
	if len(seen) != 8 || rows != 32 {
		t.Errorf("saw %d bands covering %d rows, want 8 and 32", len(seen), rows)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(testConfig(), t.TempDir()).Serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/api/strategies", ln.Addr())
	var resp *http.Response
	for range 50 {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fractal.ErrUnknownStrategy, http.StatusNotFound},
		{fmt.Errorf("x: %w", fractal.ErrBackendUnavailable), http.StatusServiceUnavailable},
		{fractal.ErrInvalidGrid, http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
