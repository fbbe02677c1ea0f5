package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheck(t *testing.T) {
	assert := assert.New(t)

	resp := get(t, "/health")
	assert.Equal(http.StatusOK, resp.StatusCode)

	body := struct {
		Success bool `json:"success"`
	}{}
	unmarshalResponse(t, resp, &body)
	assert.True(body.Success)
}

func TestMint_RequiresAuth(t *testing.T) {
	resp := post(t, "/tokens/mint", nil, map[string]interface{}{
		"name":        "No Auth",
		"content_uri": "ipfs://QmNoAuth",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestMintAndGetToken(t *testing.T) {
	assert := assert.New(t)

	tokenID := mintForUser(t, tc.user1, "RouteMint")

	resp := get(t, fmt.Sprintf("/tokens/get?token_id=%d", tokenID))
	assert.Equal(http.StatusOK, resp.StatusCode)

	body := struct {
		Token struct {
			Name       string `json:"name"`
			Creator    string `json:"creator"`
			RoyaltyBps uint64 `json:"royalty_bps"`
		} `json:"token"`
		Owner string `json:"owner"`
	}{}
	unmarshalResponse(t, resp, &body)
	assert.Equal("RouteMint", body.Token.Name)
	assert.Equal(tc.user1.address.String(), body.Token.Creator)
	assert.Equal(tc.user1.address.String(), body.Owner)
	assert.Equal(uint64(500), body.Token.RoyaltyBps)
}

func TestGetToken_NotFound(t *testing.T) {
	resp := get(t, "/tokens/get?token_id=999999")
	assertErrorCode(t, resp, http.StatusNotFound, "NotFound")
}

func TestMint_EmptyName_Failure(t *testing.T) {
	resp := post(t, "/tokens/mint", tc.user1, map[string]interface{}{
		"content_uri": "ipfs://QmNameless",
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "EmptyName")
}

func TestMint_EmptyContentURI_Failure(t *testing.T) {
	resp := post(t, "/tokens/mint", tc.user1, map[string]interface{}{
		"name": "Missing Image",
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "EmptyContentUri")
}

func TestMint_RoyaltyTooHigh_Failure(t *testing.T) {
	resp := post(t, "/tokens/mint", tc.user1, map[string]interface{}{
		"name":        "Greedy",
		"content_uri": "ipfs://QmGreedy",
		"royalty_bps": 1001,
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "RoyaltyTooHigh")
}

func TestFixedPriceSaleFlow(t *testing.T) {
	assert := assert.New(t)

	tokenID := mintForUser(t, tc.user1, "SaleFlow")
	depositForUser(t, tc.user2, 10000)

	resp := post(t, "/market/list", tc.user1, map[string]interface{}{
		"token_id": tokenID,
		"price":    10000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// buying with the wrong payment is rejected with a stable code
	resp = post(t, "/market/buy", tc.user2, map[string]interface{}{
		"token_id": tokenID,
		"payment":  9999,
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "IncorrectPrice")

	resp = post(t, "/market/buy", tc.user2, map[string]interface{}{
		"token_id": tokenID,
		"payment":  10000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = get(t, fmt.Sprintf("/tokens/get?token_id=%d", tokenID))
	body := struct {
		Owner string `json:"owner"`
	}{}
	unmarshalResponse(t, resp, &body)
	assert.Equal(tc.user2.address.String(), body.Owner)

	// seller was paid through the bank
	resp = get(t, fmt.Sprintf("/bank/balance?address=%s", tc.user1.address))
	balance := struct {
		Balance int64 `json:"balance"`
	}{}
	unmarshalResponse(t, resp, &balance)
	assert.Equal(int64(9750), balance.Balance) // seller cut plus royalty; user1 is both seller and creator

	resp.Body.Close()
}

func TestSelfPurchase_Failure(t *testing.T) {
	tokenID := mintForUser(t, tc.user1, "SelfBuy")
	depositForUser(t, tc.user1, 1000)

	resp := post(t, "/market/list", tc.user1, map[string]interface{}{
		"token_id": tokenID,
		"price":    100,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = post(t, "/market/buy", tc.user1, map[string]interface{}{
		"token_id": tokenID,
		"payment":  100,
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "SelfPurchase")
}

func TestListNotOwned_Failure(t *testing.T) {
	tokenID := mintForUser(t, tc.user1, "NotYours")

	resp := post(t, "/market/list", tc.user2, map[string]interface{}{
		"token_id": tokenID,
		"price":    100,
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "NotOwner")
}

func TestEndAuction_PublicButValidated(t *testing.T) {
	// end_auction needs no auth, but a token without an auction is rejected
	tokenID := mintForUser(t, tc.user1, "NoAuction")

	resp := post(t, "/market/end_auction", nil, map[string]interface{}{
		"token_id": tokenID,
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "AuctionNotActive")
}

func TestUpdateFee(t *testing.T) {
	assert := assert.New(t)

	resp := post(t, "/admin/update_fee", tc.user1, map[string]interface{}{
		"fee_bps": 300,
	})
	assertErrorCode(t, resp, http.StatusForbidden, "NotOperator")

	resp = post(t, "/admin/update_fee", tc.operator, map[string]interface{}{
		"fee_bps": 1001,
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "FeeTooHigh")

	resp = post(t, "/admin/update_fee", tc.operator, map[string]interface{}{
		"fee_bps": 300,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = get(t, "/admin/fee")
	body := struct {
		FeeBps   uint64 `json:"fee_bps"`
		Operator string `json:"operator"`
	}{}
	unmarshalResponse(t, resp, &body)
	assert.Equal(uint64(300), body.FeeBps)
	assert.Equal(tc.operator.address.String(), body.Operator)

	// restore the default for other tests
	resp = post(t, "/admin/update_fee", tc.operator, map[string]interface{}{
		"fee_bps": 250,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestGetCollections(t *testing.T) {
	assert := assert.New(t)

	mintForUser(t, tc.user1, "CollectionSeed")

	resp := get(t, "/collections/get?name=Route%20Tests")
	assert.Equal(http.StatusOK, resp.StatusCode)

	body := struct {
		Collection struct {
			Name     string   `json:"name"`
			Creator  string   `json:"creator"`
			TokenIDs []uint64 `json:"token_ids"`
		} `json:"collection"`
	}{}
	unmarshalResponse(t, resp, &body)
	assert.Equal("Route Tests", body.Collection.Name)
	assert.NotEmpty(body.Collection.TokenIDs)

	resp = get(t, "/collections/get?name=Nope")
	assertErrorCode(t, resp, http.StatusNotFound, "NotFound")
}

func TestBankWithdraw_Insufficient(t *testing.T) {
	resp := post(t, "/bank/withdraw", tc.user2, map[string]interface{}{
		"amount": 99999999,
	})
	assertErrorCode(t, resp, http.StatusBadRequest, "InsufficientFunds")
}
