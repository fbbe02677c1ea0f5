package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mintfolio/go-marketplace/service/persist"
)

// NoncePrepend is prepended to every nonce before it is signed, so wallets
// show users a readable message instead of a bare number
const NoncePrepend = "Mintfolio uses this cryptographic signature in place of a password: "

// JWTCookieKey is the key used to store the JWT token in the cookie
const JWTCookieKey = "MKT_JWT"

// ErrAddressSignatureMismatch is returned when the address signature does not match the address cryptographically
var ErrAddressSignatureMismatch = errors.New("address does not match signature")

// ErrInvalidJWT is returned when the JWT is invalid
var ErrInvalidJWT = errors.New("invalid or expired auth token")

// ErrNoCookie is returned when there is no JWT in the request
var ErrNoCookie = errors.New("no jwt passed as cookie")

// ErrSignatureInvalid is returned when the signed nonce's signature is invalid
var ErrSignatureInvalid = errors.New("signature invalid")

// ErrNonceNotFound is returned when no nonce is outstanding for an address
type ErrNonceNotFound struct {
	Address persist.Address
}

func (e ErrNonceNotFound) Error() string {
	return fmt.Sprintf("nonce not found for address: %s", e.Address)
}

// NonceStore holds the outstanding nonce per address. Nonces are single-use:
// a successful login consumes the nonce so the same signature cannot be
// replayed.
type NonceStore interface {
	Set(ctx context.Context, address persist.Address, nonce string) error
	Get(ctx context.Context, address persist.Address) (string, error)
	Delete(ctx context.Context, address persist.Address) error
}

// LoginInput is the input to the login pipeline
type LoginInput struct {
	Address   persist.Address `json:"address" binding:"required,eth_addr"`
	Signature string          `json:"signature" binding:"required,signature"`
}

// LoginOutput is the output of the login pipeline
type LoginOutput struct {
	SignatureValid bool            `json:"signature_valid"`
	Address        persist.Address `json:"address"`
	JWT            string          `json:"jwt_token,omitempty"`
}

// GetPreflightInput is the input to the preflight pipeline
type GetPreflightInput struct {
	Address persist.Address `json:"address" form:"address" binding:"required,eth_addr"`
}

// GetPreflightOutput is the output of the preflight pipeline
type GetPreflightOutput struct {
	Nonce string `json:"nonce"`
}

// GenerateNonce generates a random nonce to be signed by a wallet
func GenerateNonce() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	nonceInt := seededRand.Int()
	nonceStr := fmt.Sprintf("%d", nonceInt)
	return nonceStr
}

// GetPreflight issues (and stores) a fresh nonce for the address to sign
func GetPreflight(ctx context.Context, input GetPreflightInput, store NonceStore) (*GetPreflightOutput, error) {
	nonce := GenerateNonce()
	if err := store.Set(ctx, input.Address, nonce); err != nil {
		return nil, err
	}
	return &GetPreflightOutput{Nonce: nonce}, nil
}

// Login verifies a wallet signature over the address's outstanding nonce and,
// when valid, consumes the nonce and issues an auth token
func Login(ctx context.Context, input LoginInput, store NonceStore) (*LoginOutput, error) {
	nonce, err := store.Get(ctx, input.Address)
	if err != nil {
		return nil, err
	}
	if nonce == "" {
		return nil, ErrNonceNotFound{Address: input.Address}
	}

	valid, err := VerifySignature(input.Signature, nonce, input.Address)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrAddressSignatureMismatch
	}

	if err := store.Delete(ctx, input.Address); err != nil {
		return nil, err
	}

	token, err := GenerateAuthToken(ctx, input.Address)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{SignatureValid: true, Address: input.Address, JWT: token}, nil
}

// VerifySignature will verify an EOA signature over the given nonce using all
// available signing methods (personal_sign and eth_sign)
func VerifySignature(pSignatureStr string, pNonce string, pAddress persist.Address) (bool, error) {
	message := NoncePrepend + pNonce

	// personal_sign
	valid, err := verifySignature(pSignatureStr, message, pAddress, true)
	if !valid || err != nil {
		// eth_sign
		valid, err = verifySignature(pSignatureStr, message, pAddress, false)
	}

	if err != nil {
		return false, err
	}
	return valid, nil
}

func verifySignature(pSignatureStr string, pData string, pAddress persist.Address, pUseDataHeaderBool bool) (bool, error) {

	// personal_sign:
	// - sign(keccak256("\x19Ethereum Signed Message:\n" + len(message) + message))

	var data string
	if pUseDataHeaderBool {
		data = fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(pData), pData)
	} else {
		data = pData
	}

	dataHash := crypto.Keccak256Hash([]byte(data))

	sig, err := hexutil.Decode(pSignatureStr)
	if err != nil {
		return false, err
	}
	if len(sig) != crypto.SignatureLength {
		return false, ErrSignatureInvalid
	}

	// wallets return V as 27/28; go-ethereum expects 0/1
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(dataHash.Bytes(), sig)
	if err != nil {
		return false, err
	}

	recovered := persist.NewAddress(crypto.PubkeyToAddress(*pubKey).Hex())
	return recovered == pAddress, nil
}

// InMemoryNonceStore is a NonceStore backed by a map, used in tests and
// single-node local runs
type InMemoryNonceStore struct {
	mu     sync.Mutex
	nonces map[persist.Address]string
}

// NewInMemoryNonceStore creates an empty in-memory nonce store
func NewInMemoryNonceStore() *InMemoryNonceStore {
	return &InMemoryNonceStore{nonces: map[persist.Address]string{}}
}

// Set stores the outstanding nonce for an address
func (s *InMemoryNonceStore) Set(ctx context.Context, address persist.Address, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonces[address] = nonce
	return nil
}

// Get returns the outstanding nonce for an address
func (s *InMemoryNonceStore) Get(ctx context.Context, address persist.Address) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nonce, ok := s.nonces[address]
	if !ok {
		return "", ErrNonceNotFound{Address: address}
	}
	return nonce, nil
}

// Delete consumes the outstanding nonce for an address
func (s *InMemoryNonceStore) Delete(ctx context.Context, address persist.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nonces, address)
	return nil
}
