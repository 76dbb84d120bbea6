package shared

import "testing"

func TestDigestHexKnownVectors(t *testing.T) {
	content := []byte("abc")
	cases := []struct {
		algorithm string
		want      string
	}{
		{algorithm: DigestAlgorithmSHA256, want: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{algorithm: DigestAlgorithmMD5, want: "900150983cd24fb0d6963f7d28e17f72"},
	}
	for _, tc := range cases {
		got, err := DigestHex(tc.algorithm, content)
		if err != nil {
			t.Fatalf("DigestHex(%s) failed: %v", tc.algorithm, err)
		}
		if got != tc.want {
			t.Fatalf("DigestHex(%s) = %q, want %q", tc.algorithm, got, tc.want)
		}
	}
}

func TestDigestHexBLAKE3IsStable(t *testing.T) {
	first, err := DigestHex(DigestAlgorithmBLAKE3, []byte("abc"))
	if err != nil {
		t.Fatalf("DigestHex(blake3) failed: %v", err)
	}
	if len(first) != 64 {
		t.Fatalf("blake3 digest length = %d, want 64 hex chars", len(first))
	}
	second, err := DigestHex(DigestAlgorithmBLAKE3, []byte("abc"))
	if err != nil {
		t.Fatalf("DigestHex(blake3) failed: %v", err)
	}
	if first != second {
		t.Fatalf("blake3 digest not stable: %q vs %q", first, second)
	}
	other, err := DigestHex(DigestAlgorithmBLAKE3, []byte("abd"))
	if err != nil {
		t.Fatalf("DigestHex(blake3) failed: %v", err)
	}
	if other == first {
		t.Fatalf("blake3 digest identical for different content")
	}
}

func TestDigestHexRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := DigestHex("crc32", []byte("abc")); err == nil {
		t.Fatalf("expected unsupported algorithm error")
	}
}
