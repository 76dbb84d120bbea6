package shared

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest algorithm names accepted in checksum specs.
const (
	DigestAlgorithmBLAKE3 = "blake3"
	DigestAlgorithmSHA256 = "sha256"
	DigestAlgorithmMD5    = "md5"
)

// DigestHex returns the lowercase hex digest of content under the named
// algorithm.
func DigestHex(algorithm string, content []byte) (string, error) {
	switch algorithm {
	case DigestAlgorithmBLAKE3:
		sum := blake3.Sum256(content)
		return hex.EncodeToString(sum[:]), nil
	case DigestAlgorithmSHA256:
		sum := sha256.Sum256(content)
		return hex.EncodeToString(sum[:]), nil
	case DigestAlgorithmMD5:
		sum := md5.Sum(content)
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", fmt.Errorf("unsupported checksum algorithm %q", algorithm)
	}
}
