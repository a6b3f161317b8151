// Package cryptox holds the client-side cryptography: key derivation from the
// master password and AES-GCM sealing of the fields the server stores
// opaquely.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	keySize  = 32
	saltSize = 16

	saltDomain = "notekeeper/v1/salt/"
	infoAuth   = "notekeeper/v1/auth"
	infoEnc    = "notekeeper/v1/enc"
)

// ErrDecrypt is returned for ciphertext that is malformed or fails
// authentication under the given key.
var ErrDecrypt = errors.New("unable to decrypt")

// Keys are derived from one master key. Auth is proven to the server; Enc
// never leaves the client.
type Keys struct {
	Auth []byte
	Enc  []byte
}

// LoginPassword is the hex form of the auth key, sent in place of the
// master password. It fits within bcrypt's 72-byte limit.
func (k *Keys) LoginPassword() string {
	return hex.EncodeToString(k.Auth)
}

// Wipe zeroes both keys.
func (k *Keys) Wipe() {
	common.WipeByteArray(k.Auth)
	common.WipeByteArray(k.Enc)
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	x := argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
	return x
}

// UserSalt is deterministic so that any device can derive the same keys from
// username and password alone.
func UserSalt(username string) []byte {
	sum := sha256.Sum256([]byte(saltDomain + username))
	return sum[:saltSize]
}

// DeriveKeys stretches the password with argon2id and splits the result
// into independent auth and encryption keys with HKDF.
func DeriveKeys(username string, password []byte) (*Keys, error) {
	master := DeriveMasterKey(password, UserSalt(username))
	defer common.WipeByteArray(master)

	auth, err := expand(master, infoAuth)
	if err != nil {
		return nil, err
	}
	enc, err := expand(master, infoEnc)
	if err != nil {
		return nil, err
	}
	return &Keys{Auth: auth, Enc: enc}, nil
}

func expand(master []byte, info string) ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, master, []byte(info)), key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext with AES-GCM under a fresh random nonce. The
// output is nonce || ciphertext.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt reverses Encrypt.
func Decrypt(data, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(data) < aesgcm.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce, ciphertext := data[:aesgcm.NonceSize()], data[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// EncryptString is Encrypt with base64 output, ready for a JSON string field.
func EncryptString(plaintext string, key []byte) (string, error) {
	sealed, err := Encrypt([]byte(plaintext), key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func DecryptString(encoded string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}
	plaintext, err := Decrypt(data, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
