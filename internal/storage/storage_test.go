package storage

import (
	"context"
	"strings"
	"testing"
)

func TestNoopStorage(t *testing.T) {
	ctx := context.Background()
	var st Storage = NoopStorage{}
	if err := st.Upload(ctx, "posts/1.json", strings.NewReader(`{"id":1}`), "application/json"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	ok, err := st.Exists(ctx, "posts/1.json")
	if err != nil || ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
}
