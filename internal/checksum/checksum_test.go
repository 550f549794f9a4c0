package checksum

import "testing"

func TestSum(t *testing.T) {
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different content, same digest")
	}
	if Sum([]byte("same")) != Sum([]byte("same")) {
		t.Error("same content, different digest")
	}
	if len(Sum(nil)) != 64 {
		t.Error("digest is not hex SHA-256")
	}
}

func TestEqual(t *testing.T) {
	data := []byte("content")
	if !Equal(Sum(data), data) {
		t.Error("digest of data should match")
	}
	if Equal(Sum(data), []byte("other")) {
		t.Error("digest should not match other data")
	}
	if Equal("", []byte("")) {
		t.Error("empty digest must never match")
	}
}
