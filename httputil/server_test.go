// Copyright (c) 2025 The profitbot Authors

package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
)

func TestServer(t *testing.T) {
	ctx := context.Background()

	s, err := New(nil /* opts */)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.AddHandler("/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "world")
	}))

	addr := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0}
	id, err := s.StartTCP(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	if addr.Port == 0 {
		t.Fatalf("chosen port must be filled in")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/hello", addr))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "world" {
		t.Fatalf("want world, got %q", data)
	}

	if !s.RemoveHandler("/hello") {
		t.Errorf("handler must exist")
	}
	if resp, err := http.Get(fmt.Sprintf("http://%s/hello", addr)); err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			t.Errorf("removed handler must not serve")
		}
	}

	if err := s.Stop(id); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(id); err == nil {
		t.Errorf("second stop must fail")
	}
}
