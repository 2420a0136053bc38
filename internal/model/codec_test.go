package model

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFormats(t *testing.T) {
	want := []string{"json", "toml", "xml", "yaml"}
	if got := Formats(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	if !Supports("XML") || Supports("bin") {
		t.Fatalf("Supports is wrong")
	}
}

// Each format must reload into a model that computes the same outputs.
func TestSaveReadFilePreservesBehavior(t *testing.T) {
	dir := t.TempDir()
	inputs := [][]float64{{0.1, 0.9, 0}, {0.5, 0, 1}, {2, -1, 0.3}}
	for _, key := range []string{"[3]", "[tree_3]", "[tree_0]"} {
		orig, err := Sample(key)
		if err != nil {
			t.Fatalf("Sample(%s): %v", key, err)
		}
		for _, ext := range Formats() {
			path := filepath.Join(dir, "m."+ext)
			if err := orig.Save(path); err != nil {
				t.Fatalf("Save(%s, %s): %v", key, ext, err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile(%s, %s): %v", key, ext, err)
			}
			if got.Name != key || got.Size() != orig.Size() {
				t.Fatalf("%s/%s reloaded as %q size %d, want size %d", key, ext, got.Name, got.Size(), orig.Size())
			}
			for _, in := range inputs {
				want, _ := orig.Compute(in)
				out, err := got.Compute(in)
				if err != nil {
					t.Fatalf("%s/%s Compute: %v", key, ext, err)
				}
				if len(want) != len(out) {
					t.Fatalf("%s/%s Compute len = %d, want %d", key, ext, len(out), len(want))
				}
				for i := range want {
					if want[i] != out[i] {
						t.Fatalf("%s/%s Compute(%v) = %v, want %v", key, ext, in, out, want)
					}
				}
			}
		}
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	if err := os.WriteFile(path, []byte("stale content that is longer than nothing"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, _ := Sample("[1]")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := ReadFile(path); err != nil {
		t.Fatalf("ReadFile after overwrite: %v", err)
	}
}

func TestSaveErrors(t *testing.T) {
	m, _ := Sample("[1]")
	dir := t.TempDir()
	if err := m.Save(filepath.Join(dir, "m.bin")); !IsProvider(err) {
		t.Fatalf("unsupported ext error = %v, want provider error", err)
	}
	if err := m.Save(filepath.Join(dir, "missing", "m.json")); !IsIO(err) {
		t.Fatalf("missing dir error = %v, want io error", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Fatalf("Save must not create directories")
	}
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadFile(filepath.Join(dir, "nope.json")); !IsNotFound(err) {
		t.Fatalf("missing file error = %v, want not found", err)
	}
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte("{not json"), 0o644)
	if _, err := ReadFile(bad); !IsProvider(err) {
		t.Fatalf("bad json error = %v, want provider error", err)
	}
	old := filepath.Join(dir, "old.json")
	_ = os.WriteFile(old, []byte(`{"version":"model.v0","name":"x","layers":[{"type":"zero","outputs":[]}]}`), 0o644)
	if _, err := ReadFile(old); !IsProvider(err) {
		t.Fatalf("old version error = %v, want provider error", err)
	}
}

func TestLibraryLoad(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir)
	ctx := context.Background()

	m, err := lib.Load(ctx, "[tree_1]")
	if err != nil || m.Size() != 5 {
		t.Fatalf("Load sample = %v, %v", m, err)
	}
	if err := m.Save(filepath.Join(dir, "t1.yaml")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := lib.Load(ctx, "t1.yaml")
	if err != nil {
		t.Fatalf("Load relative file: %v", err)
	}
	if got.Size() != 5 {
		t.Fatalf("file model size = %d, want 5", got.Size())
	}
	if _, err := lib.Load(ctx, ""); !IsNotFound(err) {
		t.Fatalf("empty key error = %v", err)
	}
	if _, err := lib.Load(ctx, "[nope]"); !IsNotFound(err) {
		t.Fatalf("unknown sample error = %v", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := lib.Load(cctx, "[1]"); err == nil {
		t.Fatalf("expected error on canceled context")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(ErrNotFound("k")) != KindNotFound {
		t.Fatalf("not found kind")
	}
	if KindOf(ErrIO("p", os.ErrPermission)) != KindIO {
		t.Fatalf("io kind")
	}
	if KindOf(os.ErrClosed) != KindProvider {
		t.Fatalf("foreign errors should be provider errors")
	}
}
