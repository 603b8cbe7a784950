package repository

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySaveRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySaveRepository()

	if _, err := r.Load(ctx, "p1"); !errors.Is(err, ErrSaveNotFound) {
		t.Fatalf("load missing = %v; want ErrSaveNotFound", err)
	}

	data := []byte(`{"gameVersion":3}`)
	if err := r.Save(ctx, "p1", data); err != nil {
		t.Fatalf("save: %v", err)
	}
	data[0] = 'X'

	got, err := r.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"gameVersion":3}` {
		t.Fatalf("load = %s; stored bytes must be a copy", got)
	}

	if err := r.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("len = %d after delete", r.Len())
	}
}

func TestSnapshotVersion(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`{"gameVersion":3,"cash":1}`, 3},
		{`{"cash":1}`, 0},
		{`not json`, 0},
	}
	for _, tc := range cases {
		if got := snapshotVersion([]byte(tc.in)); got != tc.want {
			t.Fatalf("snapshotVersion(%s) = %d; want %d", tc.in, got, tc.want)
		}
	}
}
