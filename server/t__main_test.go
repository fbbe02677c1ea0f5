package server

import (
	"context"
	"crypto/ecdsa"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/service/market"
	"github.com/mintfolio/go-marketplace/service/persist"
	"github.com/spf13/viper"
)

type testUser struct {
	key     *ecdsa.PrivateKey
	address persist.Address
	jwt     string
}

type testConfig struct {
	server     *httptest.Server
	serverURL  string
	mkt        *market.Marketplace
	nonceStore auth.NonceStore
	operator   *testUser
	user1      *testUser
	user2      *testUser
}

var tc *testConfig

func TestMain(m *testing.M) {
	tc = setup()
	code := m.Run()
	teardown(tc)
	os.Exit(code)
}

func setup() *testConfig {
	setDefaults()
	viper.Set("ENV", "local")
	viper.Set("JWT_SECRET", "test-secret")
	viper.Set("JWT_TTL", int64(3600))
	gin.SetMode(gin.TestMode)

	operator := newTestUser()
	viper.Set("OPERATOR_ADDRESS", operator.address.String())

	mkt := market.New(operator.address)
	nonceStore := auth.NewInMemoryNonceStore()

	router := CoreInit(mkt, nonceStore)
	srv := httptest.NewServer(router)

	return &testConfig{
		server:     srv,
		serverURL:  srv.URL + "/mkt/v1",
		mkt:        mkt,
		nonceStore: nonceStore,
		operator:   operator,
		user1:      newTestUser(),
		user2:      newTestUser(),
	}
}

func teardown(tc *testConfig) {
	tc.server.Close()
}

func newTestUser() *testUser {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	address := persist.NewAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())

	jwt, err := auth.GenerateAuthToken(context.Background(), address)
	if err != nil {
		panic(err)
	}

	return &testUser{key: key, address: address, jwt: jwt}
}
