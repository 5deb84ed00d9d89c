package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-core/pkg/errno"
)

const baseURL = "http://localhost:8080/api/v1"

type apiResp struct {
	Code int                    `json:"code"`
	Msg  string                 `json:"msg"`
	Data map[string]interface{} `json:"data"`
}

// testAddr builds a fresh hex address per run so reruns against the same
// database never collide on per-wallet ceilings or duplicate listings.
func testAddr(tag byte) string {
	return fmt.Sprintf("0x%038x%02x", time.Now().UnixNano(), tag)
}

func postJSON(t *testing.T, client *http.Client, path string, body interface{}) apiResp {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Skip("Skipping integration test: server not running? " + err.Error())
	}
	defer resp.Body.Close()

	var out apiResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func getJSON(t *testing.T, client *http.Client, path string) apiResp {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	if err != nil {
		t.Skip("Skipping integration test: server not running? " + err.Error())
	}
	defer resp.Body.Close()

	var out apiResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func balanceOf(t *testing.T, client *http.Client, address string) string {
	t.Helper()
	resp := getJSON(t, client, "/accounts/"+address+"/balance")
	require.Equal(t, 0, resp.Code)
	return fmt.Sprintf("%v", resp.Data["balance"])
}

// A weighted mint call either fills the whole quantity or changes nothing:
// asking for more units than the tier has left must fail SupplyExhausted
// without minting anything or retaining any payment.
func TestWeightedMintAllOrNothing(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	creator := testAddr(0xa1)
	minter := testAddr(0xa2)

	resp := postJSON(t, client, "/accounts/deposit", map[string]interface{}{"address": creator, "amount": 100})
	require.Equal(t, 0, resp.Code, resp.Msg)
	resp = postJSON(t, client, "/accounts/deposit", map[string]interface{}{"address": minter, "amount": 50})
	require.Equal(t, 0, resp.Code, resp.Msg)

	resp = postJSON(t, client, "/collections", map[string]interface{}{
		"creator":         creator,
		"payment":         100,
		"name":            "Weighted Pack",
		"symbol":          "WPK",
		"model":           "weighted",
		"tier_prices":     []int{1, 1, 1, 1},
		"per_tx_ceiling":  10,
		"royalty_bps":     500,
		"minting_enabled": true,
	})
	require.Equal(t, 0, resp.Code, resp.Msg)
	collection := fmt.Sprintf("%v", resp.Data["address"])

	// One character with two units in tier 0, nothing anywhere else.
	resp = postJSON(t, client, "/collections/"+collection+"/characters", map[string]interface{}{
		"caller":       creator,
		"character_id": 1,
		"name":         "solo",
		"max_per_tier": []int{2, 0, 0, 0},
	})
	require.Equal(t, 0, resp.Code, resp.Msg)

	before := balanceOf(t, client, minter)

	// Three wanted, two available: the whole call must abort.
	resp = postJSON(t, client, "/collections/"+collection+"/mint-weighted", map[string]interface{}{
		"to":       minter,
		"tier":     0,
		"quantity": 3,
		"payment":  3,
	})
	assert.Equal(t, errno.ErrSupplyExhausted.Code, resp.Code)
	assert.Equal(t, before, balanceOf(t, client, minter), "failed mint must not retain payment")

	// The same two units are still mintable afterwards.
	resp = postJSON(t, client, "/collections/"+collection+"/mint-weighted", map[string]interface{}{
		"to":       minter,
		"tier":     0,
		"quantity": 2,
		"payment":  2,
	})
	require.Equal(t, 0, resp.Code, resp.Msg)
	units, ok := resp.Data["token_ids"].([]interface{})
	require.True(t, ok)
	assert.Len(t, units, 2)
}

// Listing transitions are one-directional: a sold listing cannot be canceled
// and a canceled listing cannot be bought.
func TestListingLifecycleTerminalStates(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	seller := testAddr(0xb1)
	buyer := testAddr(0xb2)

	resp := postJSON(t, client, "/accounts/deposit", map[string]interface{}{"address": seller, "amount": 100})
	require.Equal(t, 0, resp.Code, resp.Msg)
	resp = postJSON(t, client, "/accounts/deposit", map[string]interface{}{"address": buyer, "amount": 100})
	require.Equal(t, 0, resp.Code, resp.Msg)

	resp = postJSON(t, client, "/collections", map[string]interface{}{
		"creator":         seller,
		"payment":         100,
		"name":            "Lifecycle",
		"symbol":          "LC",
		"model":           "sequential",
		"mint_price":      1,
		"supply_ceiling":  5,
		"minting_enabled": true,
	})
	require.Equal(t, 0, resp.Code, resp.Msg)
	collection := fmt.Sprintf("%v", resp.Data["address"])

	mint := func() {
		resp = postJSON(t, client, "/collections/"+collection+"/mint", map[string]interface{}{"to": seller, "payment": 1})
		require.Equal(t, 0, resp.Code, resp.Msg)
	}
	list := func(tokenID int) string {
		resp = postJSON(t, client, "/listings", map[string]interface{}{
			"seller":     seller,
			"collection": collection,
			"token_id":   tokenID,
			"price":      5,
			"quantity":   1,
		})
		require.Equal(t, 0, resp.Code, resp.Msg)
		return fmt.Sprintf("%v", resp.Data["listing_key"])
	}

	resp = postJSON(t, client, "/collections/"+collection+"/approvals", map[string]interface{}{"owner": seller, "approved": true})
	require.Equal(t, 0, resp.Code, resp.Msg)

	// Buy, then try to cancel the sold listing.
	mint()
	key := list(1)
	resp = postJSON(t, client, "/listings/"+key+"/buy", map[string]interface{}{"buyer": buyer, "payment": 5})
	require.Equal(t, 0, resp.Code, resp.Msg)
	assert.Equal(t, "95", balanceOf(t, client, buyer))

	resp = postJSON(t, client, "/listings/"+key+"/cancel", map[string]interface{}{"caller": seller})
	assert.Equal(t, errno.ErrInvalidState.Code, resp.Code)

	// Cancel, then try to buy the canceled listing.
	mint()
	key = list(2)
	resp = postJSON(t, client, "/listings/"+key+"/cancel", map[string]interface{}{"caller": seller})
	require.Equal(t, 0, resp.Code, resp.Msg)

	resp = postJSON(t, client, "/listings/"+key+"/buy", map[string]interface{}{"buyer": buyer, "payment": 5})
	assert.Equal(t, errno.ErrInvalidState.Code, resp.Code)
	assert.Equal(t, "95", balanceOf(t, client, buyer), "rejected buy must not move funds")
}
