package storage

import (
	"bytes"
	"testing"
)

func TestVector_PushGet(t *testing.T) {
	db := NewMemory()
	v := NewVector(db, []byte("i"))

	if n, _ := v.Len(); n != 0 {
		t.Fatalf("empty Len = %d, want 0", n)
	}
	for i, s := range []string{"x", "y", "z"} {
		idx, err := v.Push([]byte(s))
		if err != nil {
			t.Fatalf("Push: %v", err)
		}
		if idx != uint64(i) {
			t.Errorf("Push index = %d, want %d", idx, i)
		}
	}
	if n, _ := v.Len(); n != 3 {
		t.Errorf("Len = %d, want 3", n)
	}
	if got, _ := v.Get(1); string(got) != "y" {
		t.Errorf("Get(1) = %q, want y", got)
	}
	if _, err := v.Get(3); err == nil {
		t.Error("Get(3) should be out of range")
	}

	all, _ := v.Strings()
	if len(all) != 3 || all[0] != "x" || all[2] != "z" {
		t.Errorf("Strings = %v", all)
	}
}

func TestVector_EmptyStringsNotNil(t *testing.T) {
	all, err := NewVector(NewMemory(), []byte("j")).Strings()
	if err != nil {
		t.Fatal(err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("Strings on empty vector = %#v, want empty slice", all)
	}
}

func TestVector_NestedKeysDoNotCollide(t *testing.T) {
	db := NewMemory()
	a := NewVector(db, JoinKey("c", "alice"))
	b := NewVector(db, JoinKey("c", "alice2"))
	a.Push([]byte("t1"))
	b.Push([]byte("t2"))
	b.Push([]byte("t3"))

	if n, _ := a.Len(); n != 1 {
		t.Errorf("alice Len = %d, want 1", n)
	}
	if n, _ := b.Len(); n != 2 {
		t.Errorf("alice2 Len = %d, want 2", n)
	}
}

func TestJoinKey_Injective(t *testing.T) {
	k1 := JoinKey("c", "ab", "c")
	k2 := JoinKey("c", "a", "bc")
	if bytes.Equal(k1, k2) {
		t.Error("JoinKey should distinguish part boundaries")
	}
	if !bytes.Equal(JoinKey("x"), []byte("x")) {
		t.Error("JoinKey with no parts should equal the tag")
	}
}
